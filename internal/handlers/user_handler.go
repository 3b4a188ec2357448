package handlers

import (
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	accounts, err := h.users.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(accounts)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	acc, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(acc)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	acc, err := h.users.Save(c.UserContext(), actor, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(acc)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.users.SoftDelete(c.UserContext(), actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Account deactivated"})
}

func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.users.Reactivate(c.UserContext(), actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Account reactivated"})
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.users.ResetCredential(c.UserContext(), actor, id, req.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}

func currentActor(c *fiber.Ctx) (models.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return models.Identity{}, services.ErrUnauthorized
	}
	return identity, nil
}

func actorAndID(c *fiber.Ctx) (models.Identity, uint, error) {
	identity, err := currentActor(c)
	if err != nil {
		return identity, 0, err
	}
	id, err := parseID(c, "id")
	return identity, id, err
}
