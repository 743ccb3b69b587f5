package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/controllers"
	"github.com/slotbook/slotbook/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, ctl *controllers.AuthController, limiter *middleware.RateLimiter) {
	auth := app.Group("/auth", limiter.Limit())

	auth.Post("/register", ctl.Register)
	auth.Post("/login", ctl.Login)
	auth.Post("/verify", ctl.Verify)
}
