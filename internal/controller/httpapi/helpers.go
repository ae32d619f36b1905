package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

var (
	timeParamLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", model.DateLayout}
	// datetime-local inputs post minutes without seconds or offset
	formTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
)

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return service.NewValidationError("malformed request body")
	}
	return nil
}

// paramID parses a positive integer path parameter; anything else is a missing record.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrNotFound
	}
	return id, nil
}

// queryTime parses an optional RFC3339 timestamp or plain date query parameter.
func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeParamLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, service.NewFieldError(name, name+" must be an RFC3339 timestamp or a YYYY-MM-DD date")
}

// formTime reads a date-time field of a form-encoded body. Values without an offset
// are read in the caller's timezone. JSON bodies bind their timestamps directly.
func formTime(c echo.Context, name string) (*time.Time, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationForm) {
		return nil, nil
	}
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return nil, nil
	}

	loc := time.UTC
	if session := currentSession(c); session != nil {
		loc = model.LoadLocation(session.Timezone)
	}
	for _, layout := range formTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	return nil, service.NewFieldError(name, name+" must be a date and time such as 2024-03-01T14:00")
}
