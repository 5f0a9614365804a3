package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/ports"
)

type DashboardHandler struct {
	earnings ports.EarningsService
	log      *zap.Logger
}

func NewDashboardHandler(earnings ports.EarningsService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		earnings: earnings,
		log:      log,
	}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	stats, err := h.earnings.DashboardStats(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *DashboardHandler) RecentEarnings(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	earnings, err := h.earnings.RecentEarnings(c.Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "earnings": earnings})
}

func (h *DashboardHandler) ReferralStats(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	stats, err := h.earnings.ReferralStats(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "referrals": stats})
}
