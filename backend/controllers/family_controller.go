package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/middleware"
	"aiacademy/backend/services"
	"aiacademy/backend/utils"
)

type FamilyController struct {
	Family *services.FamilyService
	Logger *log.Logger
}

func NewFamilyController(family *services.FamilyService, logger *log.Logger) *FamilyController {
	return &FamilyController{Family: family, Logger: logger}
}

// SendFamilyRequest godoc
// @Summary Send a family link invitation
// @Description Stores a pending invitation and emails the recipient an accept link
// @Tags family
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /settings/family-request [post]
func (fc *FamilyController) SendFamilyRequest(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	message, err := fc.Family.SendRequest(c.Context(), ident, input.Email)
	if err != nil {
		fc.Logger.Printf("family request failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// AcceptInvitation godoc
// @Summary Accept a family link invitation
// @Description The token itself is the capability; no authentication required
// @Tags family
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /settings/accept-invitation [post]
func (fc *FamilyController) AcceptInvitation(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	message, err := fc.Family.Accept(c.Context(), input.Token)
	if err != nil {
		fc.Logger.Printf("accept invitation failed: %v", err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// GetFamilyMembers godoc
// @Summary List family members
// @Description Returns an empty list when the user has no family yet
// @Tags family
// @Produce json
// @Success 200 {array} models.FamilyMember
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /settings/family-members [get]
func (fc *FamilyController) GetFamilyMembers(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	members, err := fc.Family.Members(c.Context(), ident.UID)
	if err != nil {
		fc.Logger.Printf("list family members failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(members)
}
