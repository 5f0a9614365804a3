package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
)

// ErrorHandler maps domain errors onto HTTP responses. Recoverable
// withdrawal errors carry their extra fields so clients can show the
// countdown or the shortfall.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErr  *domain.ValidationError
			duplicateErr   *domain.DuplicateError
			couponPlanErr  *domain.CouponPlanError
			windowErr      *domain.WindowClosedError
			balanceErr     *domain.InsufficientBalanceError
			persistenceErr *domain.PersistenceError
		)

		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   validationErr.Message,
			})
		case errors.As(err, &duplicateErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   duplicateErr.Error(),
			})
		case errors.As(err, &couponPlanErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":   false,
				"error":     "Coupon not valid for this plan",
				"validPlan": couponPlanErr.ValidPlan,
			})
		case errors.As(err, &windowErr):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":       false,
				"error":         "Withdrawal window is closed",
				"daysUntilOpen": windowErr.DaysUntilOpen,
			})
		case errors.As(err, &balanceErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":   false,
				"error":     balanceErr.Error(),
				"minimum":   balanceErr.Minimum,
				"balance":   balanceErr.Balance,
				"shortfall": balanceErr.Shortfall(),
			})
		case errors.Is(err, domain.ErrTaskAlreadyCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "You have already completed this task",
			})
		case errors.Is(err, domain.ErrTaskUnavailable):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Task not found or inactive",
			})
		case errors.Is(err, domain.ErrInvalidCoupon):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid coupon code",
			})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Resource not found",
			})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid credentials",
			})
		case errors.As(err, &persistenceErr):
			// Never swallow a money-path failure silently.
			log.Error("Persistence failure",
				zap.String("op", persistenceErr.Op),
				zap.String("path", c.Path()),
				zap.Error(persistenceErr.Err),
			)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"error":   "Service temporarily unavailable, please try again",
			})
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
}
