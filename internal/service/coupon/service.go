package coupon

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

const generateAttempts = 10

// Service resolves user roles from the static phone allow-lists and
// validates and issues coupon codes.
type Service struct {
	coupons   ports.CouponRepository
	admins    map[string]struct{}
	vendors   map[string]struct{}
	singleUse bool
	log       *zap.Logger
}

func NewService(coupons ports.CouponRepository, roles config.RolesConfig, couponsCfg config.CouponsConfig, log *zap.Logger) *Service {
	s := &Service{
		coupons:   coupons,
		admins:    make(map[string]struct{}, len(roles.AdminPhones)),
		vendors:   make(map[string]struct{}, len(roles.VendorPhones)),
		singleUse: couponsCfg.SingleUse,
		log:       log,
	}
	for _, p := range roles.AdminPhones {
		s.admins[normalizePhone(p)] = struct{}{}
	}
	for _, p := range roles.VendorPhones {
		s.vendors[normalizePhone(p)] = struct{}{}
	}
	return s
}

// Classify maps a phone number to its role. The admin list is checked
// first and wins if a number somehow appears in both lists.
func (s *Service) Classify(phone string) domain.UserType {
	p := normalizePhone(phone)
	if _, ok := s.admins[p]; ok {
		return domain.UserTypeAdmin
	}
	if _, ok := s.vendors[p]; ok {
		return domain.UserTypeVendor
	}
	return domain.UserTypeRegular
}

// CouponRequired reports whether signup must present a coupon. Admins,
// vendors and the free plan are exempt.
func (s *Service) CouponRequired(userType domain.UserType, plan domain.Plan) bool {
	if userType == domain.UserTypeAdmin || userType == domain.UserTypeVendor {
		return false
	}
	return plan.IsPaid()
}

func (s *Service) ValidateCoupon(ctx context.Context, code string, plan domain.Plan) (*ports.CouponValidation, error) {
	coupon, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "coupon lookup", Err: err}
	}
	if coupon == nil {
		return &ports.CouponValidation{Valid: false, Error: "Invalid coupon code"}, nil
	}
	if s.singleUse && coupon.Used {
		return &ports.CouponValidation{Valid: false, Error: "Coupon has already been used"}, nil
	}
	if coupon.RequiredPlan != plan {
		return &ports.CouponValidation{
			Valid:     false,
			Error:     "Coupon not valid for this plan",
			ValidPlan: coupon.RequiredPlan,
		}, nil
	}
	return &ports.CouponValidation{Valid: true, DiscountPercent: coupon.DiscountPercent}, nil
}

// RedeemCoupon marks a code consumed when the single-use policy is on.
// Under the default shared-promo policy it is a no-op.
func (s *Service) RedeemCoupon(ctx context.Context, code string) error {
	if !s.singleUse {
		return nil
	}
	return s.coupons.MarkUsed(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// GenerateCoupon creates a vendor or admin coupon with a random code
// prefixed by the plan. Retries on code collision a bounded number of
// times.
func (s *Service) GenerateCoupon(ctx context.Context, createdBy string, plan domain.Plan, discountPercent int) (*domain.Coupon, error) {
	if !plan.IsPaid() {
		return nil, &domain.ValidationError{Field: "plan", Message: "coupons apply to paid plans only"}
	}
	if discountPercent <= 0 || discountPercent > 100 {
		return nil, &domain.ValidationError{Field: "discount", Message: "discount must be between 1 and 100"}
	}

	for attempt := 0; attempt < generateAttempts; attempt++ {
		code := plan.CouponPrefix() + randomHex(4)
		coupon := &domain.Coupon{
			Code:            code,
			DiscountPercent: discountPercent,
			RequiredPlan:    plan,
			CreatedBy:       createdBy,
			CreatedAt:       time.Now(),
		}
		err := s.coupons.Save(ctx, coupon)
		if err == nil {
			s.log.Info("Coupon generated",
				zap.String("code", code),
				zap.String("plan", string(plan)),
				zap.Int("discount", discountPercent),
			)
			return coupon, nil
		}
		var dup *domain.DuplicateError
		if !errors.As(err, &dup) {
			return nil, &domain.PersistenceError{Op: "coupon create", Err: err}
		}
	}
	return nil, fmt.Errorf("failed to generate a unique coupon code after %d attempts", generateAttempts)
}

func normalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
