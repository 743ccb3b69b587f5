package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbook/slotbook/services"
)

type AuthController struct {
	identity *services.IdentityService
}

func NewAuthController(identity *services.IdentityService) *AuthController {
	return &AuthController{identity: identity}
}

// Register godoc
// @Summary Register a new account
// @Description Create an unverified requester or provider account and mail a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param account body services.RegisterInput true "Account"
// @Success 201 {object} fiber.Map
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	input := new(services.RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	result, err := ctl.identity.Register(*input)
	if err != nil {
		return fail(c, "Failed to register account", err)
	}

	resp := fiber.Map{
		"id":      result.UserID,
		"message": "Account created. Check your email for the verification code.",
	}
	if result.DeliveryDegraded {
		resp["notifications"] = "degraded"
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Authenticate an account
// @Description Exchange email and password for a 24h bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} fiber.Map
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	token, err := ctl.identity.Authenticate(input.Email, input.Password)
	if err != nil {
		return fail(c, "Login failed", err)
	}
	return c.JSON(fiber.Map{
		"token": token,
	})
}

// Verify godoc
// @Summary Redeem a verification code
// @Description Mark the account verified; the code is single-use and expires after one hour
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} fiber.Map
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/verify [post]
func (ctl *AuthController) Verify(c *fiber.Ctx) error {
	type VerifyInput struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	user, err := ctl.identity.RedeemCode(input.Email, input.Code)
	if err != nil {
		return fail(c, "Verification failed", err)
	}
	return c.JSON(fiber.Map{
		"id":      user.ID,
		"message": "Email verified. You can now log in.",
	})
}
