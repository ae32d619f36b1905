package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

const (
	issuer = "course_app"

	audienceSession  = "session"
	audienceTelegram = "telegram-link"

	// LinkTokenTTL is how long a Telegram link token stays valid.
	LinkTokenTTL = 10 * time.Minute
)

var ErrInvalidToken = fmt.Errorf("%w: invalid token", service.ErrUnauthorized)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email,omitempty"`
	Role     model.Role `json:"role,omitempty"`
	Timezone string     `json:"tz,omitempty"`
}

// Session converts the claims into the caller of a service operation.
func (c *Claims) Session() (*service.Session, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}
	return &service.Session{
		UserID:   id,
		Name:     c.Name,
		Email:    c.Email,
		Role:     c.Role,
		Timezone: c.Timezone,
	}, nil
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetClock replaces the time source.
func (m *TokenManager) SetClock(now func() time.Time) {
	m.now = now
}

// TTL is the lifetime of session tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken issues a session token for the user.
func (m *TokenManager) GenerateToken(u *model.User) (string, error) {
	claims := &Claims{
		RegisteredClaims: m.registered(u.ID, audienceSession, m.ttl),
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Timezone:         u.Timezone,
	}
	return m.sign(claims)
}

// ParseToken verifies a session token.
func (m *TokenManager) ParseToken(token string) (*Claims, error) {
	return m.parse(token, audienceSession)
}

// GenerateLinkToken issues a short-lived token a user sends to the Telegram bot.
func (m *TokenManager) GenerateLinkToken(userID int64) (string, error) {
	return m.sign(&Claims{RegisteredClaims: m.registered(userID, audienceTelegram, LinkTokenTTL)})
}

// ParseLinkToken verifies a Telegram link token and returns its user id.
func (m *TokenManager) ParseLinkToken(token string) (int64, error) {
	claims, err := m.parse(token, audienceTelegram)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (m *TokenManager) registered(userID int64, audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *TokenManager) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return ss, nil
}

func (m *TokenManager) parse(token, audience string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
		}
		return nil, ErrInvalidToken
	}
	if !claims.VerifyAudience(audience, true) || !claims.VerifyIssuer(issuer, true) {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(m.now(), true) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	return claims, nil
}
