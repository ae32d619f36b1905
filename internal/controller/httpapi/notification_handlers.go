package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type countResponse struct {
	Count int `json:"count"`
}

func (s *Server) registerNotificationAPI(g *echo.Group) {
	n := g.Group("/notifications", requireSession)
	n.GET("", s.listNotifications)
	n.GET("/unread-count", s.unreadCount)
	n.POST("/read-all", s.markAllRead)
	n.POST("/:id/read", s.markRead)
}

func (s *Server) listNotifications(c echo.Context) error {
	list, err := s.opts.Services.Notifications.List(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, list)
}

func (s *Server) unreadCount(c echo.Context) error {
	n, err := s.opts.Services.Notifications.UnreadCount(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

func (s *Server) markRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.opts.Services.Notifications.MarkRead(c.Request().Context(), currentSession(c), id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}

func (s *Server) markAllRead(c echo.Context) error {
	n, err := s.opts.Services.Notifications.MarkAllRead(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"updated": n})
}
