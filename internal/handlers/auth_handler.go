package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService *services.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Login verifies credentials and starts a brand-new session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	identity, err := h.authService.VerifyCredentials(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return fail(c, err)
	}

	s, err := h.sessions.Start(c, *identity)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.SessionResponse{
		Account:   *identity,
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

// Me returns the caller with the role just resolved from the store.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fail(c, services.ErrUnauthorized)
	}
	return c.JSON(identity)
}
