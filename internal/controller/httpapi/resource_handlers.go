package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/service"
)

type moveResourceInput struct {
	LessonID *int64 `json:"lessonId" form:"lessonId"`
}

func (s *Server) registerResourceAPI(g *echo.Group) {
	g.POST("/resources", s.addResource, requireInstructor)
	g.PATCH("/resources/:id", s.moveResource, requireInstructor)
}

func (s *Server) addResource(c echo.Context) error {
	var input service.AddResourceInput
	if err := bind(c, &input); err != nil {
		return err
	}
	res, err := s.opts.Services.Resources.Add(c.Request().Context(), currentSession(c), input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, res)
}

// moveResource attaches a resource to a lesson, or detaches it when lessonId is null.
func (s *Server) moveResource(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input moveResourceInput
	if err := bind(c, &input); err != nil {
		return err
	}
	res, err := s.opts.Services.Resources.Move(c.Request().Context(), currentSession(c), id, input.LessonID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}
