package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// fail maps a service error to its status code. Server errors get a generic
// message; their detail goes to the log and Sentry.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrConflict):
		status, message = fiber.StatusConflict, err.Error()
	default:
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", services.ErrValidation, msg)
}

// parseID reads a positive base-10 id from the named route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	return parsePositive(c.Params(param), param)
}

func parsePositive(raw, field string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, badRequest(field + " must be a positive integer")
	}
	return uint(n), nil
}

// parseBody decodes a JSON body. Fields of the wrong JSON type are rejected.
func parseBody(c *fiber.Ctx, out any) error {
	if !c.Is("json") {
		return badRequest("request body must be JSON")
	}
	if err := c.BodyParser(out); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
