package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

const (
	sessionCookieName = "courseapp_session"
	sessionTokenKey   = "token"
	contextSessionKey = "session"
)

func newCookieStore(secret string, secure bool, ttl time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionMiddleware loads the caller from a Bearer token or the session cookie.
// Requests without credentials pass through anonymously. A bad Bearer token is rejected,
// a stale cookie is ignored.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c.Request()); token != "" {
			session, err := s.parseSession(token)
			if err != nil {
				return err
			}
			c.Set(contextSessionKey, session)
			return next(c)
		}

		if token := s.cookieToken(c.Request()); token != "" {
			if session, err := s.parseSession(token); err == nil {
				c.Set(contextSessionKey, session)
			}
		}
		return next(c)
	}
}

func (s *Server) parseSession(token string) (*service.Session, error) {
	claims, err := s.opts.Tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return claims.Session()
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (s *Server) cookieToken(r *http.Request) string {
	sess, err := s.sessions.Get(r, sessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[sessionTokenKey].(string)
	return token
}

func (s *Server) saveSessionCookie(c echo.Context, token string) error {
	sess, _ := s.sessions.Get(c.Request(), sessionCookieName)
	sess.Values[sessionTokenKey] = token
	return sess.Save(c.Request(), c.Response())
}

func (s *Server) clearSessionCookie(c echo.Context) error {
	sess, _ := s.sessions.Get(c.Request(), sessionCookieName)
	delete(sess.Values, sessionTokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// currentSession returns the caller or nil for anonymous requests.
func currentSession(c echo.Context) *service.Session {
	session, _ := c.Get(contextSessionKey).(*service.Session)
	return session
}

// requireSession rejects anonymous requests.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentSession(c) == nil {
			return service.ErrUnauthorized
		}
		return next(c)
	}
}

// requireInstructor rejects callers without the instructor role.
func requireInstructor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session := currentSession(c)
		if session == nil {
			return service.ErrUnauthorized
		}
		if session.Role != model.RoleInstructor {
			return service.ErrForbidden
		}
		return next(c)
	}
}
