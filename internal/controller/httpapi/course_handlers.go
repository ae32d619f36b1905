package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerCourseAPI(g *echo.Group) {
	g.GET("/dashboard", s.dashboard, requireSession)
	g.GET("/courses", s.listCourses, requireSession)
	g.GET("/courses/:slug", s.courseDetail, requireSession)
}

func (s *Server) dashboard(c echo.Context) error {
	dash, err := s.opts.Services.Courses.Dashboard(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dash)
}

func (s *Server) listCourses(c echo.Context) error {
	list, err := s.opts.Services.Courses.List(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, list)
}

func (s *Server) courseDetail(c echo.Context) error {
	detail, err := s.opts.Services.Courses.Detail(c.Request().Context(), currentSession(c), c.Param("slug"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, detail)
}
