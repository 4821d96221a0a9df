package middleware

import (
	"log"
	"strings"

	"kritika/internal/permissions"
	"kritika/internal/services"

	"github.com/gofiber/fiber/v2"
)

const callerKey = "caller"

// Authenticate resolves the caller from a bearer token when one is
// presented. Requests without an Authorization header continue as
// anonymous since most reads are public; a presented but invalid token is
// rejected outright.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		caller, err := authService.ResolveCaller(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// CallerFromCtx returns the resolved caller, or nil for an anonymous
// request.
func CallerFromCtx(c *fiber.Ctx) *permissions.Caller {
	caller, _ := c.Locals(callerKey).(*permissions.Caller)
	return caller
}
