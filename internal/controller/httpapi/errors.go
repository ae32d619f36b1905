package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/service"
)

type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, dataResponse{Success: true, Data: data})
}

// statusOf maps a service error onto an HTTP status.
func statusOf(err error) int {
	var vErr *service.ValidationError
	var fErrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &vErr), errors.As(err, &fErrs):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotFoundOrResolved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every error as {"success": false, ...}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := errorResponse{}
	code := statusOf(err)

	var he *echo.HTTPError
	var vErr *service.ValidationError
	var fErrs validator.ValidationErrors
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, isString := he.Message.(string); isString {
			resp.Error = msg
		} else {
			resp.Error = http.StatusText(code)
		}
	case errors.As(err, &vErr):
		resp.Error = vErr.Err
		if len(vErr.Fields) > 0 {
			resp.Fields = make(map[string]string, len(vErr.Fields))
			for _, f := range vErr.Fields {
				resp.Fields[f.Field] = f.Error
			}
		}
	case errors.As(err, &fErrs):
		resp.Error = "invalid input"
		resp.Fields = make(map[string]string, len(fErrs))
		for _, fe := range fErrs {
			resp.Fields[fe.Field()] = fe.Error()
		}
	case code == http.StatusInternalServerError:
		resp.Error = http.StatusText(code)
		s.logger.Error("Unhandled error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	default:
		resp.Error = err.Error()
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
