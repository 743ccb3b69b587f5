package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/controllers"
	"github.com/slotbook/slotbook/middleware"
	"github.com/slotbook/slotbook/models"
)

// SetupProviderRoutes configures the provider-only profile routes
func SetupProviderRoutes(app *fiber.App, ctl *controllers.ProfileController, jwtSecret string) {
	profile := app.Group("/providers/profile",
		middleware.Protected(jwtSecret),
		middleware.RequireRole(models.RoleProvider))

	profile.Get("/", ctl.GetProfile)
	profile.Put("/", ctl.UpsertProfile)
	profile.Post("/picture", ctl.UploadPicture)
}
