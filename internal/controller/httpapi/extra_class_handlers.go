package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/service"
)

func (s *Server) registerExtraClassAPI(g *echo.Group) {
	g.GET("/extra-class-requests", s.listOwnRequests, requireSession)
	g.POST("/extra-class-requests", s.submitRequest, requireSession)

	admin := g.Group("/admin/extra-class-requests", requireInstructor)
	admin.GET("", s.listAllRequests)
	admin.POST("/:id/approve", s.approveRequest)
	admin.POST("/:id/reject", s.rejectRequest)
}

func (s *Server) listOwnRequests(c echo.Context) error {
	list, err := s.opts.Services.ExtraClasses.ListForStudent(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, list)
}

func (s *Server) submitRequest(c echo.Context) error {
	var input service.SubmitExtraClassInput
	if err := bind(c, &input); err != nil {
		return err
	}
	req, err := s.opts.Services.ExtraClasses.Submit(c.Request().Context(), currentSession(c), input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, req)
}

func (s *Server) listAllRequests(c echo.Context) error {
	list, err := s.opts.Services.ExtraClasses.ListAll(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, list)
}

func (s *Server) approveRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input service.ApproveExtraClassInput
	if err := bind(c, &input); err != nil {
		return err
	}
	input.RequestID = id
	at, err := formTime(c, "scheduledAt")
	if err != nil {
		return err
	}
	if at != nil {
		input.ScheduledAt = at
	}

	lesson, err := s.opts.Services.ExtraClasses.Approve(c.Request().Context(), currentSession(c), input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, lesson)
}

func (s *Server) rejectRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input service.RejectExtraClassInput
	if err := bind(c, &input); err != nil {
		return err
	}
	input.RequestID = id

	if err := s.opts.Services.ExtraClasses.Reject(c.Request().Context(), currentSession(c), input); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}
