package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/auth"
	"aiacademy/backend/utils"
)

const identityKey = "identity"

// AuthMiddleware verifies the bearer credential and stashes the caller
// identity in the request locals. Verification failure short-circuits with
// 401 before any handler runs.
func AuthMiddleware(verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

		ident, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// Identity returns the verified caller identity for a protected route, or
// nil when the route was not wrapped by AuthMiddleware.
func Identity(c *fiber.Ctx) *auth.Identity {
	ident, _ := c.Locals(identityKey).(*auth.Identity)
	return ident
}
