package routes

import (
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/session"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	sessions *session.Manager,
	roles middleware.RoleResolver,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	publicHandler *handlers.PublicHandler,
	serverHandler *handlers.ServerHandler,
	announcementHandler *handlers.AnnouncementHandler,
	userHandler *handlers.UserHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Public, no session
	public := api.Group("/public")
	public.Get("/servers", publicHandler.Servers)
	public.Get("/announcements", publicHandler.Announcements)
	public.Get("/announcements/feed", publicHandler.Feed)

	staff := middleware.RoleRequired(roles, sessions, models.RoleStaff)
	adminOnly := middleware.RoleRequired(roles, sessions, models.RoleAdmin)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.SessionRequired(sessions), staff, authHandler.Me)

	// Every admin route re-resolves the caller's role from the store.
	admin := api.Group("/admin", middleware.SessionRequired(sessions))

	admin.Get("/servers", staff, serverHandler.List)
	admin.Post("/servers", staff, serverHandler.Upsert)
	admin.Get("/servers/:id", staff, serverHandler.Get)
	admin.Delete("/servers/:id", staff, serverHandler.Delete)

	admin.Get("/announcements", staff, announcementHandler.List)
	admin.Post("/announcements", staff, announcementHandler.Create)
	admin.Get("/announcements/:id", staff, announcementHandler.Get)
	admin.Delete("/announcements/:id", staff, announcementHandler.Delete)

	admin.Get("/users", adminOnly, userHandler.List)
	admin.Post("/users", adminOnly, userHandler.Create)
	admin.Get("/users/:id", adminOnly, userHandler.Get)
	admin.Delete("/users/:id", adminOnly, userHandler.Delete)
	admin.Post("/users/:id/reactivate", adminOnly, userHandler.Reactivate)
	admin.Put("/users/:id/password", adminOnly, userHandler.ResetPassword)
}
