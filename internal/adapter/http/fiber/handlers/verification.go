package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/adapter/http/fiber/middleware"
	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type VerificationHandler struct {
	verification ports.VerificationService
	users        ports.UserRepository
	log          *zap.Logger
}

func NewVerificationHandler(verification ports.VerificationService, users ports.UserRepository, log *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
		users:        users,
		log:          log,
	}
}

type SendCodeRequest struct {
	Channel string `json:"channel"` // email or phone
}

func (h *VerificationHandler) SendCode(c *fiber.Ctx) error {
	var req SendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Not authenticated"})
	}

	channel, destination, err := resolveChannel(user, req.Channel)
	if err != nil {
		return err
	}
	if err := h.verification.SendCode(c.Context(), channel, destination); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Verification code sent"})
}

type VerifyCodeRequest struct {
	Channel string `json:"channel"`
	Code    string `json:"code"`
}

func (h *VerificationHandler) VerifyCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Not authenticated"})
	}

	channel, destination, err := resolveChannel(user, req.Channel)
	if err != nil {
		return err
	}
	if err := h.verification.VerifyCode(c.Context(), channel, destination, req.Code); err != nil {
		return err
	}

	if channel == ports.VerificationChannelPhone {
		user.PhoneVerified = true
	} else {
		user.EmailVerified = true
	}
	if err := h.users.Update(c.Context(), user); err != nil {
		return &domain.PersistenceError{Op: "verification flag update", Err: err}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Verified"})
}

func resolveChannel(user *domain.User, channel string) (ports.VerificationChannel, string, error) {
	switch channel {
	case "phone":
		return ports.VerificationChannelPhone, user.Phone, nil
	case "email", "":
		return ports.VerificationChannelEmail, user.Email, nil
	default:
		return "", "", &domain.ValidationError{Field: "channel", Message: "channel must be email or phone"}
	}
}
