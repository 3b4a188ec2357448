package middleware

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/session"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

type RoleResolver interface {
	ResolveRole(ctx context.Context, identity models.Identity) (models.Role, error)
}

// RoleRequired re-resolves the caller's role from the credential store on
// every request and rejects callers below min. The role in the session token
// is never consulted. A store failure is a 500 and keeps the cookie, since
// the session may still be valid. Must run after SessionRequired.
func RoleRequired(auth RoleResolver, sessions *session.Manager, min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := session.FromContext(c)
		if !session.IsAuthenticated(s) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		identity := s.Identity()
		role, err := auth.ResolveRole(c.UserContext(), identity)
		if errors.Is(err, services.ErrServer) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if err != nil {
			sessions.Clear(c)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !role.AtLeast(min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: string(min) + " access required",
			})
		}

		identity.Role = role
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the caller resolved by RoleRequired.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(identityKey).(models.Identity)
	return identity, ok
}
