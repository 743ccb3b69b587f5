package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/services"
	"github.com/slotbook/slotbook/utils"
)

type ProfileController struct {
	identity *services.IdentityService
}

func NewProfileController(identity *services.IdentityService) *ProfileController {
	return &ProfileController{identity: identity}
}

// UpsertProfile godoc
// @Summary Create or replace the provider profile
// @Tags providers
// @Accept json
// @Produce json
// @Success 200 {object} models.ProviderProfile
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /providers/profile [put]
func (ctl *ProfileController) UpsertProfile(c *fiber.Ctx) error {
	type ProfileInput struct {
		Expertise string  `json:"expertise"`
		Price     float64 `json:"price"`
	}

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	userID := c.Locals("userID").(uint)

	profile, err := ctl.identity.UpsertProfile(userID, input.Expertise, input.Price)
	if err != nil {
		return fail(c, "Failed to save profile", err)
	}
	return c.JSON(profile)
}

// GetProfile godoc
// @Summary Get the provider's own profile
// @Tags providers
// @Produce json
// @Success 200 {object} models.ProviderProfile
// @Failure 404 {object} utils.ErrorResponse
// @Router /providers/profile [get]
func (ctl *ProfileController) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := ctl.identity.GetProfile(userID)
	if err != nil {
		return fail(c, "Profile not found", err)
	}
	return c.JSON(profile)
}

// UploadPicture godoc
// @Summary Upload a provider profile picture
// @Tags providers
// @Accept mpfd
// @Produce json
// @Success 200 {object} fiber.Map
// @Failure 400 {object} utils.ErrorResponse
// @Router /providers/profile/picture [post]
func (ctl *ProfileController) UploadPicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing picture file",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot read picture file",
		})
	}
	defer file.Close()

	url, err := utils.UploadProfilePicture(c.Context(), file, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload picture",
			Error:   err.Error(),
		})
	}
	if err := ctl.identity.SetProfilePicture(userID, url); err != nil {
		return fail(c, "Failed to save picture URL", err)
	}
	return c.JSON(fiber.Map{
		"url": url,
	})
}
