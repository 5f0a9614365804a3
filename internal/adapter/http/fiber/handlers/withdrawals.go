package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type WithdrawalHandler struct {
	withdrawals ports.WithdrawalService
	log         *zap.Logger
}

func NewWithdrawalHandler(withdrawals ports.WithdrawalService, log *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawals: withdrawals,
		log:         log,
	}
}

func (h *WithdrawalHandler) WindowStatus(c *fiber.Ctx) error {
	status := h.withdrawals.WindowStatus(time.Now())
	return c.JSON(fiber.Map{"success": true, "window": status})
}

func (h *WithdrawalHandler) Eligibility(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	stream := domain.WithdrawalType(c.Query("type", string(domain.WithdrawalTypeTask)))

	if err := h.withdrawals.CheckEligibility(c.Context(), userID, stream); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "eligible": true})
}

func (h *WithdrawalHandler) Submit(c *fiber.Ctx) error {
	var sub ports.WithdrawalSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	sub.UserID, _ = c.Locals("user_id").(string)

	req, err := h.withdrawals.Submit(c.Context(), &sub)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":             true,
		"withdrawal":          req,
		"processing_deadline": req.ProcessingDeadline,
	})
}

func (h *WithdrawalHandler) History(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	requests, err := h.withdrawals.History(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "withdrawals": requests})
}
