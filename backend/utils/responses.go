package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/apperr"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error creates a JSON error response with the given status.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// FromError translates a service error to its HTTP response. Unclassified
// errors are treated as store failures (500).
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, apperr.KindOf(err).HTTPStatus(), err.Error())
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
