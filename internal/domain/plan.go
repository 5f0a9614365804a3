package domain

import "strings"

type Plan string

const (
	PlanFree     Plan = "free"
	PlanLite     Plan = "lite"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
	PlanBG       Plan = "bg"
	PlanBF       Plan = "bf"
)

// PlanTerms carries the money rules attached to a subscription tier.
// Amounts are in naira.
type PlanTerms struct {
	ReferralCommission  float64 `json:"referral_commission"`
	MinIncomeWithdraw   float64 `json:"min_income_withdraw"`
	MinReferralWithdraw float64 `json:"min_referral_withdraw"`
}

var planCatalog = map[Plan]PlanTerms{
	PlanFree:     {ReferralCommission: 0, MinIncomeWithdraw: 0, MinReferralWithdraw: 0},
	PlanLite:     {ReferralCommission: 4000, MinIncomeWithdraw: 20000, MinReferralWithdraw: 20000},
	PlanStandard: {ReferralCommission: 10000, MinIncomeWithdraw: 69000, MinReferralWithdraw: 20000},
	PlanPremium:  {ReferralCommission: 13000, MinIncomeWithdraw: 90000, MinReferralWithdraw: 26000},
	PlanBG:       {ReferralCommission: 15000, MinIncomeWithdraw: 125000, MinReferralWithdraw: 30000},
	PlanBF:       {ReferralCommission: 18000, MinIncomeWithdraw: 100000, MinReferralWithdraw: 25000},
}

// ValidPlan reports whether s names a known tier.
func ValidPlan(s string) bool {
	_, ok := planCatalog[Plan(s)]
	return ok
}

// Terms returns the money rules for the plan. Unknown plans get the
// free tier's zero terms.
func (p Plan) Terms() PlanTerms {
	return planCatalog[p]
}

// IsPaid reports whether signing up under the plan costs money and so
// requires a coupon for regular users.
func (p Plan) IsPaid() bool {
	return p != PlanFree && p != ""
}

// CouponPrefix is the two-letter uppercase prefix used on generated
// coupon codes for this plan.
func (p Plan) CouponPrefix() string {
	s := strings.ToUpper(string(p))
	if len(s) < 2 {
		return s
	}
	return s[:2]
}
