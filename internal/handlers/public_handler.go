package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/feeds"
)

const (
	feedLimit      = 50
	feedTitleRunes = 80
)

// PublicHandler serves what anonymous visitors see: active servers and
// announcements inside their window.
type PublicHandler struct {
	servers       *services.ServerService
	announcements *services.AnnouncementService
	siteName      string
	publicURL     string
}

func NewPublicHandler(servers *services.ServerService, announcements *services.AnnouncementService, cfg *config.Config) *PublicHandler {
	return &PublicHandler{
		servers:       servers,
		announcements: announcements,
		siteName:      cfg.SiteName,
		publicURL:     strings.TrimRight(cfg.PublicURL, "/"),
	}
}

func (h *PublicHandler) Servers(c *fiber.Ctx) error {
	servers, err := h.servers.List(c.UserContext(), false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(servers)
}

func (h *PublicHandler) Announcements(c *fiber.Ctx) error {
	filter, err := announcementFilter(c)
	if err != nil {
		return fail(c, err)
	}
	filter.ActiveWindowOnly = true
	return c.JSON(h.announcements.List(c.UserContext(), filter))
}

// Feed renders the visible announcements as RSS 2.0.
func (h *PublicHandler) Feed(c *fiber.Ctx) error {
	views := h.announcements.Visible(c.UserContext(), feedLimit)

	feed := &feeds.Feed{
		Title:       h.siteName + " announcements",
		Link:        &feeds.Link{Href: h.publicURL},
		Description: "Current announcements from " + h.siteName,
		Created:     time.Now().UTC(),
	}
	for _, v := range views {
		link := fmt.Sprintf("%s/api/public/announcements#%d", h.publicURL, v.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       feedTitle(v),
			Link:        &feeds.Link{Href: link},
			Description: v.Message,
			Created:     v.CreatedAt,
			Updated:     v.UpdatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fail(c, fmt.Errorf("%w: render feed: %w", services.ErrServer, err))
	}
	c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	return c.SendString(rss)
}

func feedTitle(v services.AnnouncementView) string {
	title := v.Message
	if r := []rune(title); len(r) > feedTitleRunes {
		title = string(r[:feedTitleRunes]) + "..."
	}
	prefix := "[" + strings.ToUpper(string(v.Severity)) + "] "
	if v.ServerName != nil {
		prefix += *v.ServerName + ": "
	}
	return prefix + title
}
