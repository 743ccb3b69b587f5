package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/controllers"
	"github.com/slotbook/slotbook/middleware"
)

// SetupBookingRoutes configures slot listing and reservation routes. Listing
// is deliberately public; booking itself requires a token.
func SetupBookingRoutes(app *fiber.App, ctl *controllers.BookingController, jwtSecret string) {
	app.Get("/providers/:id/slots", ctl.ListSlots)
	app.Post("/reservations", middleware.Protected(jwtSecret), ctl.Reserve)
}
