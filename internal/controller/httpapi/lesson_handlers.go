package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/service"
)

func (s *Server) registerLessonAPI(g *echo.Group) {
	g.GET("/lessons", s.calendar, requireSession)
	g.POST("/lessons", s.scheduleLesson, requireInstructor)
	g.PATCH("/lessons/:id", s.updateLesson, requireInstructor)
	g.GET("/admin/lessons", s.listLessons, requireInstructor)
}

// calendar serves the bare event array the calendar widget expects.
func (s *Server) calendar(c echo.Context) error {
	start, err := queryTime(c, "start")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return err
	}
	events, err := s.opts.Services.Lessons.Calendar(c.Request().Context(), currentSession(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) scheduleLesson(c echo.Context) error {
	var input service.ScheduleLessonInput
	if err := bind(c, &input); err != nil {
		return err
	}
	at, err := formTime(c, "scheduledAt")
	if err != nil {
		return err
	}
	if at != nil {
		input.ScheduledAt = *at
	}
	lesson, err := s.opts.Services.Lessons.Schedule(c.Request().Context(), currentSession(c), input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, lesson)
}

func (s *Server) updateLesson(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input service.UpdateLessonInput
	if err := bind(c, &input); err != nil {
		return err
	}
	input.LessonID = id
	at, err := formTime(c, "scheduledAt")
	if err != nil {
		return err
	}
	if at != nil {
		input.ScheduledAt = at
	}

	lesson, err := s.opts.Services.Lessons.Update(c.Request().Context(), currentSession(c), input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, lesson)
}

func (s *Server) listLessons(c echo.Context) error {
	list, err := s.opts.Services.Lessons.ListAll(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, list)
}
