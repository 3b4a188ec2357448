package middleware

import (
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// SessionRequired rejects requests without a valid session cookie and leaves
// the parsed token in locals for session.FromContext.
func SessionRequired(sessions *session.Manager) fiber.Handler {
	unauthorized := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Unauthorized: missing or expired session",
		})
	}

	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: sessions.Secret()},
		TokenLookup: "cookie:" + sessions.CookieName(),
		ContextKey:  session.ContextKey,
		Claims:      &session.Claims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			if !session.IsAuthenticated(session.FromContext(c)) {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}
