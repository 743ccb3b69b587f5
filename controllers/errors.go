package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/models"
	"github.com/slotbook/slotbook/utils"
)

// errorStatus maps each domain error to its one stable status class.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidSlot):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrUnverifiedAccount), errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateIdentity), errors.Is(err, models.ErrSlotUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidOrExpiredCode):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, message string, err error) error {
	return c.Status(errorStatus(err)).JSON(utils.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
