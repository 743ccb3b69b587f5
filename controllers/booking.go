package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/services"
)

type BookingController struct {
	booking *services.BookingService
}

func NewBookingController(booking *services.BookingService) *BookingController {
	return &BookingController{booking: booking}
}

// ListSlots godoc
// @Summary List a provider's available slots
// @Description Free hourly slots for the provider on the given date, ascending. Public.
// @Tags bookings
// @Produce json
// @Param id path int true "Provider ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} fiber.Map
// @Failure 400 {object} utils.ErrorResponse
// @Router /providers/{id}/slots [get]
func (ctl *BookingController) ListSlots(c *fiber.Ctx) error {
	providerID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider id",
		})
	}

	slots, err := ctl.booking.ListAvailable(uint(providerID), c.Query("date"))
	if err != nil {
		return fail(c, "Failed to list available slots", err)
	}
	return c.JSON(fiber.Map{
		"slots": slots,
	})
}

// Reserve godoc
// @Summary Reserve a slot
// @Description Book a one-hour session; exactly one caller wins a contended slot
// @Tags bookings
// @Accept json
// @Produce json
// @Success 201 {object} fiber.Map
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /reservations [post]
func (ctl *BookingController) Reserve(c *fiber.Ctx) error {
	type ReserveInput struct {
		ProviderID uint   `json:"provider_id"`
		Date       string `json:"date"`
		TimeSlot   string `json:"time_slot"`
	}

	input := new(ReserveInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	requesterID := c.Locals("userID").(uint)

	result, err := ctl.booking.Reserve(input.ProviderID, requesterID, input.Date, input.TimeSlot)
	if err != nil {
		return fail(c, "Failed to reserve slot", err)
	}

	notifications := "ok"
	if result.NotificationsDegraded {
		notifications = "degraded"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation":   result.Reservation,
		"notifications": notifications,
	})
}
