package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/auth"
	"github.com/Freeeeeet/course_app/internal/service"
)

type (
	Services struct {
		Users         *service.UserService
		Courses       *service.CourseService
		Lessons       *service.LessonService
		Resources     *service.ResourceService
		Notifications *service.NotificationService
		ExtraClasses  *service.ExtraClassService
	}

	Options struct {
		Address        string
		Production     bool
		CORSOrigins    []string
		SessionSecret  string
		TelegramBot    string
		DisableReqLogs bool
		Tokens         *auth.TokenManager
		Services       Services
		Logger         *zap.Logger
	}

	Server struct {
		opts     *Options
		app      *echo.Echo
		sessions sessions.Store
		logger   *zap.Logger
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		sessions: newCookieStore(opts.SessionSecret, opts.Production, opts.Tokens.TTL()),
		logger:   opts.Logger.Named("http"),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.HTTPErrorHandler = s.errorHandler

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.opts.DisableReqLogs {
		s.app.Use(s.requestLogger())
	}
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisableStackAll: true}))
	s.app.Use(echo.WrapMiddleware(newCORS(s.opts.CORSOrigins).Handler))
	s.app.Use(s.metricsMiddleware)

	s.app.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.app.Group("/api", s.sessionMiddleware)
	s.registerAuthAPI(api)
	s.registerCourseAPI(api)
	s.registerLessonAPI(api)
	s.registerResourceAPI(api)
	s.registerNotificationAPI(api)
	s.registerExtraClassAPI(api)
}

// Start serves until the server is stopped.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("address", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposedHeaders:   []string{echo.HeaderXRequestID},
		AllowCredentials: true,
	})
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				s.logger.Error("Request failed", fields...)
				return nil
			}
			s.logger.Info("Request", fields...)
			return nil
		},
	})
}

func (s *Server) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else {
				status = statusOf(err)
			}
		}
		observeRequest(c.Request().Method, c.Path(), status, time.Since(start))
		return err
	}
}
