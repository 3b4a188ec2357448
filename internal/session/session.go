// Package session carries the signed-in identity in an HttpOnly cookie
// holding an HS256 token.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is where the token middleware stores the parsed token.
const ContextKey = "session"

// Claims is the token payload. Role is informational only.
type Claims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is the decoded cookie of one signed-in caller.
type Session struct {
	AccountID uint
	Name      string
	Role      models.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Session) Identity() models.Identity {
	return models.Identity{ID: s.AccountID, Name: s.Name}
}

// IsAuthenticated reports whether s belongs to a signed-in account.
func IsAuthenticated(s *Session) bool {
	return s != nil && s.AccountID > 0
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	cookie string
	secure bool
	now    func() time.Time
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
		cookie: cfg.SessionCookie,
		secure: cfg.CookieSecure,
		now:    time.Now,
	}
}

func (m *Manager) CookieName() string { return m.cookie }

func (m *Manager) Secret() []byte { return m.secret }

// Issue mints a new token for identity. Every call gets a fresh token id so
// a session established before login is never carried over.
func (m *Manager) Issue(identity models.Identity) (string, *Session, error) {
	if identity.ID == 0 {
		return "", nil, errors.New("cannot issue a session without an account id")
	}

	now := m.now().UTC().Truncate(time.Second)
	s := &Session{
		AccountID: identity.ID,
		Name:      identity.Name,
		Role:      identity.Role,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := Claims{
		Name: s.Name,
		Role: s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(s.AccountID), 10),
			ID:        s.TokenID,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, s, nil
}

// Start issues a token for identity and sets it as the session cookie.
func (m *Manager) Start(c *fiber.Ctx, identity models.Identity) (*Session, error) {
	token, s, err := m.Issue(identity)
	if err != nil {
		return nil, err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return s, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// FromContext returns the session parsed by the token middleware, or nil.
func FromContext(c *fiber.Ctx) *Session {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil
	}

	s := &Session{
		AccountID: uint(id),
		Name:      claims.Name,
		Role:      claims.Role,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}
