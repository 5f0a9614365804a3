package domain

import (
	"time"
)

// Coupon grants a percentage discount on one specific paid plan.
type Coupon struct {
	Code            string    `json:"code" gorm:"primaryKey"`
	DiscountPercent int       `json:"discount_percent"`
	RequiredPlan    Plan      `json:"required_plan"`
	CreatedBy       string    `json:"created_by,omitempty"` // empty for the static catalog
	Used            bool      `json:"used"`
	CreatedAt       time.Time `json:"created_at"`
}

// StaticCoupons is the built-in promo catalog seeded at startup.
func StaticCoupons() []Coupon {
	return []Coupon{
		{Code: "WELCOME20", DiscountPercent: 20, RequiredPlan: PlanLite},
		{Code: "STANDARD30", DiscountPercent: 30, RequiredPlan: PlanStandard},
		{Code: "PREMIUM50", DiscountPercent: 50, RequiredPlan: PlanPremium},
		{Code: "BUSINESS40", DiscountPercent: 40, RequiredPlan: PlanBG},
		{Code: "BFELITE25", DiscountPercent: 25, RequiredPlan: PlanBF},
	}
}
