package controllers

import (
	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/services"
	"aiacademy/backend/utils"
)

type AuthController struct {
	Accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{Accounts: accounts}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	token, ident, err := ac.Accounts.Register(c.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user": fiber.Map{
			"uid":   ident.UID,
			"name":  ident.Name,
			"email": ident.Email,
		},
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	token, ident, err := ac.Accounts.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user": fiber.Map{
			"uid":   ident.UID,
			"name":  ident.Name,
			"email": ident.Email,
		},
	})
}
