package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

const referralCodeAttempts = 10

var nigerianPhonePattern = regexp.MustCompile(`^\+234[0-9]{10}$`)

// Domains rejected at signup. Throwaway inboxes defeat email
// verification.
var disposableEmailDomains = map[string]struct{}{
	"mailinator.com":    {},
	"tempmail.com":      {},
	"temp-mail.org":     {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"throwawaymail.com": {},
	"yopmail.com":       {},
	"fakeinbox.com":     {},
	"trashmail.com":     {},
	"getnada.com":       {},
	"maildrop.cc":       {},
}

type Service struct {
	users        ports.UserRepository
	coupons      ports.CouponService
	earnings     ports.EarningsService
	verification ports.VerificationService
	email        ports.EmailService
	jwtSecret    []byte
	jwtIssuer    string
	accessTTL    time.Duration
	refreshTTL   time.Duration
	log          *zap.Logger
}

func NewService(
	users ports.UserRepository,
	coupons ports.CouponService,
	earnings ports.EarningsService,
	verification ports.VerificationService,
	email ports.EmailService,
	jwtCfg config.JWTConfig,
	log *zap.Logger,
) *Service {
	accessTTL := jwtCfg.AccessTokenDuration
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := jwtCfg.RefreshTokenDuration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	issuer := jwtCfg.Issuer
	if issuer == "" {
		issuer = "paradox"
	}
	return &Service{
		users:        users,
		coupons:      coupons,
		earnings:     earnings,
		verification: verification,
		email:        email,
		jwtSecret:    []byte(jwtCfg.Secret),
		jwtIssuer:    issuer,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		log:          log,
	}
}

// Signup registers a user. The phone number decides the role once and
// forever; admins and vendors skip the coupon and arrive verified. A
// valid referral code on a paid plan credits the referrer exactly once.
func (s *Service) Signup(ctx context.Context, req *ports.SignupRequest) (*domain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.Join(strings.Fields(req.Phone), "")
	plan := domain.Plan(strings.ToLower(strings.TrimSpace(req.Plan)))

	if fullName == "" {
		return nil, &domain.ValidationError{Field: "fullname", Message: "full name is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if len(req.Password) < 8 {
		return nil, &domain.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if !domain.ValidPlan(string(plan)) {
		return nil, &domain.ValidationError{Field: "plan", Message: "unknown plan"}
	}
	if isDisposableEmail(email) {
		return nil, &domain.ValidationError{Field: "email", Message: "disposable email addresses are not allowed"}
	}

	userType := s.coupons.Classify(phone)
	if userType == domain.UserTypeRegular && !nigerianPhonePattern.MatchString(phone) {
		return nil, &domain.ValidationError{Field: "phone", Message: "phone must be a Nigerian number in +234 format"}
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, &domain.PersistenceError{Op: "email check", Err: err}
	} else if existing != nil {
		return nil, &domain.DuplicateError{Field: "email"}
	}
	if existing, err := s.users.FindByPhone(ctx, phone); err != nil {
		return nil, &domain.PersistenceError{Op: "phone check", Err: err}
	} else if existing != nil {
		return nil, &domain.DuplicateError{Field: "phone"}
	}

	couponCode := strings.TrimSpace(req.CouponCode)
	if couponCode == "NOT_REQUIRED" {
		couponCode = ""
	}
	if s.coupons.CouponRequired(userType, plan) {
		if couponCode == "" {
			return nil, &domain.ValidationError{Field: "couponCode", Message: "a coupon code is required for this plan"}
		}
		validation, err := s.coupons.ValidateCoupon(ctx, couponCode, plan)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			if validation.ValidPlan != "" {
				return nil, &domain.CouponPlanError{ValidPlan: validation.ValidPlan}
			}
			return nil, domain.ErrInvalidCoupon
		}
	}

	referrer := s.resolveReferrer(ctx, req.ReferralCode)

	referralCode, err := s.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:            uuid.NewString(),
		FullName:      fullName,
		Email:         email,
		Phone:         phone,
		Password:      string(hashedPwd),
		Plan:          plan,
		UserType:      userType,
		EmailVerified: userType != domain.UserTypeRegular,
		PhoneVerified: userType != domain.UserTypeRegular,
		ReferralCode:  referralCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	if err := s.users.Save(ctx, user); err != nil {
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "user create", Err: err}
	}

	if s.coupons.CouponRequired(userType, plan) && couponCode != "" {
		if err := s.coupons.RedeemCoupon(ctx, couponCode); err != nil {
			s.log.Warn("Failed to redeem coupon", zap.String("code", couponCode), zap.Error(err))
		}
	}

	if referrer != nil && plan.IsPaid() {
		if _, err := s.earnings.CreditReferral(ctx, referrer.ID, user.ID, plan); err != nil {
			// The account exists; the commission failure is logged
			// for reconciliation, never retried automatically.
			s.log.Error("Referral commission not credited",
				zap.String("referrer_id", referrer.ID),
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	if userType == domain.UserTypeRegular && s.verification != nil {
		if err := s.verification.SendCode(ctx, ports.VerificationChannelEmail, email); err != nil {
			s.log.Warn("Failed to send email verification code", zap.Error(err))
		}
		if err := s.verification.SendCode(ctx, ports.VerificationChannelPhone, phone); err != nil {
			s.log.Warn("Failed to send phone verification code", zap.Error(err))
		}
	}

	if s.email != nil {
		if err := s.email.SendWelcome(ctx, user); err != nil {
			s.log.Warn("Welcome email failed", zap.Error(err))
		}
	}

	telemetry.SignupsTotal.WithLabelValues(string(plan), string(userType)).Inc()
	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("plan", string(plan)),
		zap.String("user_type", string(userType)),
		zap.Bool("referred", referrer != nil),
	)
	return user, nil
}

// Login authenticates by phone number.
func (s *Service) Login(ctx context.Context, phone, password string) (*domain.User, string, string, error) {
	user, err := s.users.FindByPhone(ctx, strings.Join(strings.Fields(phone), ""))
	if err != nil {
		return nil, "", "", &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, "", "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", domain.ErrUnauthorized
	}

	access, refresh, err := s.generateTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" {
		return "", domain.ErrUnauthorized
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return "", domain.ErrUnauthorized
	}
	return s.generateAccessToken(user)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "access" {
		return nil, domain.ErrUnauthorized
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, &domain.PersistenceError{Op: "email check", Err: err}
	}
	return user == nil, nil
}

func (s *Service) PhoneAvailable(ctx context.Context, phone string) (bool, error) {
	user, err := s.users.FindByPhone(ctx, strings.Join(strings.Fields(phone), ""))
	if err != nil {
		return false, &domain.PersistenceError{Op: "phone check", Err: err}
	}
	return user == nil, nil
}

func (s *Service) resolveReferrer(ctx context.Context, code string) *domain.User {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	referrer, err := s.users.FindByReferralCode(ctx, code)
	if err != nil {
		s.log.Warn("Referral code lookup failed", zap.Error(err))
		return nil
	}
	if referrer == nil {
		s.log.Info("Unknown referral code ignored", zap.String("code", code))
	}
	return referrer
}

func (s *Service) generateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code := "VIP" + randomHex(4)
		existing, err := s.users.FindByReferralCode(ctx, code)
		if err != nil {
			return "", &domain.PersistenceError{Op: "referral code check", Err: err}
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique referral code after %d attempts", referralCodeAttempts)
}

func (s *Service) generateTokens(user *domain.User) (string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"iss":  s.jwtIssuer,
		"exp":  time.Now().Add(s.refreshTTL).Unix(),
		"type": "refresh",
	})
	refreshTokenStr, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshTokenStr, nil
}

func (s *Service) generateAccessToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       user.ID,
		"user_type": user.UserType,
		"iss":       s.jwtIssuer,
		"exp":       time.Now().Add(s.accessTTL).Unix(),
		"type":      "access",
	})
	return token.SignedString(s.jwtSecret)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}

func isDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	_, blocked := disposableEmailDomains[email[at+1:]]
	return blocked
}
