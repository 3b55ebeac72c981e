package routes

import (
	"github.com/ahmetcoskunkizilkaya/nexo/internal/config"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Pages     *handlers.PageHandler
	TagPages  *handlers.TagPageHandler
	Dashboard *handlers.DashboardHandler
}

func Setup(app *fiber.App, cfg *config.Config, avatarDir string, h Handlers) {
	// Public pages
	app.Get("/", h.Pages.Home)
	app.Get("/login", h.Pages.Login)
	app.Get("/signup", h.Pages.Signup)
	app.Get("/preview/:mode", h.Pages.Preview)

	// Public tag taps
	app.Get("/t/:code", h.TagPages.Resolve)
	app.Get("/t/:code/contact.vcf", h.TagPages.VCard)

	// Uploaded avatars
	app.Static("/avatars", avatarDir, fiber.Static{MaxAge: 3600})

	api := app.Group("/api")
	api.Get("/health", h.Health.Check)

	auth := api.Group("/auth")
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/signout", h.Auth.Signout)
	auth.Get("/signout", h.Auth.Signout)

	// Dashboard (session required)
	dash := app.Group("/dashboard", middleware.SessionRequired(cfg))
	dash.Get("/", h.Dashboard.Home)
	dash.Get("/analytics", h.Dashboard.Analytics)
	dash.Get("/profile", h.Dashboard.GetProfile)
	dash.Put("/profile", h.Dashboard.UpdateProfile)

	tags := dash.Group("/tags")
	tags.Get("/new", h.Dashboard.NewTagOptions)
	tags.Post("/", h.Dashboard.CreateTag)
	tags.Get("/:id", h.Dashboard.GetTag)
	tags.Patch("/:id", h.Dashboard.UpdateTag)
	tags.Delete("/:id", h.Dashboard.DeleteTag)
	tags.Put("/:id/modes/:mode", h.Dashboard.SaveMode)
	tags.Get("/:id/qr.png", h.Dashboard.QRCode)
	tags.Post("/:id/avatar", h.Dashboard.UploadAvatar)
	tags.Delete("/:id/avatar", h.Dashboard.DeleteAvatar)
	tags.Get("/:id/analytics", h.Dashboard.TagAnalytics)
}
