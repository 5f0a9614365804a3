package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}

		token := parts[1]
		user, err := service.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_type", user.UserType)
		c.Locals("user", user)

		return c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userType, _ := c.Locals("user_type").(domain.UserType)
		if userType != domain.UserTypeAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Next()
	}
}

// PrivilegedRequired allows admins and vendors (coupon issuers).
func PrivilegedRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userType, _ := c.Locals("user_type").(domain.UserType)
		if userType != domain.UserTypeAdmin && userType != domain.UserTypeVendor {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Vendor or admin access required"})
		}
		return c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the request context.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals("user").(*domain.User)
	return user
}
