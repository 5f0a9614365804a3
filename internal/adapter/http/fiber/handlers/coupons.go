package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/adapter/http/fiber/middleware"
	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type CouponHandler struct {
	coupons ports.CouponService
	log     *zap.Logger
}

func NewCouponHandler(coupons ports.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		log:     log,
	}
}

type ValidateCouponRequest struct {
	Code string `json:"code"`
	Plan string `json:"plan"`
}

func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var req ValidateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Code == "" || !domain.ValidPlan(req.Plan) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "code and a valid plan are required"})
	}

	validation, err := h.coupons.ValidateCoupon(c.Context(), req.Code, domain.Plan(req.Plan))
	if err != nil {
		return err
	}
	return c.JSON(validation)
}

type GenerateCouponRequest struct {
	Plan            string `json:"plan"`
	DiscountPercent int    `json:"discount"`
}

// Generate issues a new coupon. Vendors and admins only.
func (h *CouponHandler) Generate(c *fiber.Ctx) error {
	var req GenerateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if !domain.ValidPlan(req.Plan) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "a valid plan is required"})
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Not authenticated"})
	}

	coupon, err := h.coupons.GenerateCoupon(c.Context(), user.ID, domain.Plan(req.Plan), req.DiscountPercent)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "coupon": coupon})
}
