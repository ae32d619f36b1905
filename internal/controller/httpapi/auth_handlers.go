package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Freeeeeet/course_app/internal/auth"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

type tokenResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type telegramLinkResponse struct {
	Token     string    `json:"token"`
	Command   string    `json:"command"`
	Bot       string    `json:"bot,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) registerAuthAPI(g *echo.Group) {
	g.POST("/auth/register", s.register)
	g.POST("/auth/login", s.login)
	g.POST("/auth/logout", s.logout)

	me := g.Group("/me", requireSession)
	me.GET("", s.me)
	me.GET("/telegram-link", s.telegramLink)
	me.DELETE("/telegram", s.unlinkTelegram)

	g.GET("/admin/students", s.listStudents, requireInstructor)
}

func (s *Server) register(c echo.Context) error {
	var input service.RegisterInput
	if err := bind(c, &input); err != nil {
		return err
	}
	user, err := s.opts.Services.Users.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return s.issueToken(c, http.StatusCreated, user)
}

func (s *Server) login(c echo.Context) error {
	var input service.LoginInput
	if err := bind(c, &input); err != nil {
		return err
	}
	user, err := s.opts.Services.Users.Authenticate(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return s.issueToken(c, http.StatusOK, user)
}

func (s *Server) issueToken(c echo.Context, code int, user *model.User) error {
	token, err := s.opts.Tokens.GenerateToken(user)
	if err != nil {
		return err
	}
	if err := s.saveSessionCookie(c, token); err != nil {
		return err
	}
	return ok(c, code, tokenResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.opts.Tokens.TTL()).UTC(),
	})
}

func (s *Server) logout(c echo.Context) error {
	if err := s.clearSessionCookie(c); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}

func (s *Server) me(c echo.Context) error {
	user, err := s.opts.Services.Users.Get(c.Request().Context(), currentSession(c).UserID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

func (s *Server) telegramLink(c echo.Context) error {
	token, err := s.opts.Tokens.GenerateLinkToken(currentSession(c).UserID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, telegramLinkResponse{
		Token:     token,
		Command:   "/link " + token,
		Bot:       s.opts.TelegramBot,
		ExpiresAt: time.Now().Add(auth.LinkTokenTTL).UTC(),
	})
}

func (s *Server) unlinkTelegram(c echo.Context) error {
	user, err := s.opts.Services.Users.SetTelegramChat(c.Request().Context(), currentSession(c).UserID, nil)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

func (s *Server) listStudents(c echo.Context) error {
	students, err := s.opts.Services.Users.ListStudents(c.Request().Context(), currentSession(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, students)
}
