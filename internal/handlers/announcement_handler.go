package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AnnouncementHandler struct {
	announcements *services.AnnouncementService
}

func NewAnnouncementHandler(announcements *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List supports ?server_id=, ?external_id= and ?active_only=true.
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	filter, err := announcementFilter(c)
	if err != nil {
		return fail(c, err)
	}
	if raw := c.Query("active_only"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, badRequest("active_only must be a boolean"))
		}
		filter.ActiveWindowOnly = active
	}
	return c.JSON(h.announcements.List(c.UserContext(), filter))
}

func (h *AnnouncementHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	view, err := h.announcements.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAnnouncementRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	view, err := h.announcements.Save(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.announcements.SoftDelete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Announcement deactivated"})
}

func announcementFilter(c *fiber.Ctx) (repository.AnnouncementFilter, error) {
	var filter repository.AnnouncementFilter
	if raw := c.Query("server_id"); raw != "" {
		id, err := parsePositive(raw, "server_id")
		if err != nil {
			return filter, err
		}
		filter.ServerID = &id
	}
	filter.ExternalID = c.Query("external_id")
	return filter, nil
}
