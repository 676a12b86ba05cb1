package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/middleware"
	"aiacademy/backend/models"
	"aiacademy/backend/services"
	"aiacademy/backend/utils"
)

type UserController struct {
	Profiles *services.ProfileService
	Logger   *log.Logger
}

func NewUserController(profiles *services.ProfileService, logger *log.Logger) *UserController {
	return &UserController{Profiles: profiles, Logger: logger}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile, creating it on first access
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /settings [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	profile, err := uc.Profiles.GetOrCreate(c.Context(), ident)
	if err != nil {
		uc.Logger.Printf("get profile failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(profile)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Merges allow-listed fields (name, email) into the profile
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /settings [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var update models.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := uc.Profiles.Update(c.Context(), ident.UID, update); err != nil {
		uc.Logger.Printf("update profile failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Profile updated."})
}
