package handlers

import (
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ServerHandler struct {
	servers *services.ServerService
}

func NewServerHandler(servers *services.ServerService) *ServerHandler {
	return &ServerHandler{servers: servers}
}

// List returns every server, including deactivated ones.
func (h *ServerHandler) List(c *fiber.Ctx) error {
	servers, err := h.servers.List(c.UserContext(), true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(servers)
}

func (h *ServerHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	srv, err := h.servers.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(srv)
}

// Upsert creates the server or refreshes and reactivates an existing one.
func (h *ServerHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertServerRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	srv, err := h.servers.Upsert(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(srv)
}

func (h *ServerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.servers.SoftDelete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Server deactivated"})
}
