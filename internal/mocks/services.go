package mocks

import (
	"context"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

// MockCouponService is a mock implementation of CouponService
type MockCouponService struct {
	ClassifyFunc       func(phone string) domain.UserType
	CouponRequiredFunc func(userType domain.UserType, plan domain.Plan) bool
	ValidateCouponFunc func(ctx context.Context, code string, plan domain.Plan) (*ports.CouponValidation, error)
	RedeemCouponFunc   func(ctx context.Context, code string) error
	GenerateCouponFunc func(ctx context.Context, createdBy string, plan domain.Plan, discountPercent int) (*domain.Coupon, error)
}

func (m *MockCouponService) Classify(phone string) domain.UserType {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(phone)
	}
	return domain.UserTypeRegular
}

func (m *MockCouponService) CouponRequired(userType domain.UserType, plan domain.Plan) bool {
	if m.CouponRequiredFunc != nil {
		return m.CouponRequiredFunc(userType, plan)
	}
	return false
}

func (m *MockCouponService) ValidateCoupon(ctx context.Context, code string, plan domain.Plan) (*ports.CouponValidation, error) {
	if m.ValidateCouponFunc != nil {
		return m.ValidateCouponFunc(ctx, code, plan)
	}
	return &ports.CouponValidation{Valid: true}, nil
}

func (m *MockCouponService) RedeemCoupon(ctx context.Context, code string) error {
	if m.RedeemCouponFunc != nil {
		return m.RedeemCouponFunc(ctx, code)
	}
	return nil
}

func (m *MockCouponService) GenerateCoupon(ctx context.Context, createdBy string, plan domain.Plan, discountPercent int) (*domain.Coupon, error) {
	if m.GenerateCouponFunc != nil {
		return m.GenerateCouponFunc(ctx, createdBy, plan, discountPercent)
	}
	return nil, nil
}

// MockEarningsService is a mock implementation of EarningsService
type MockEarningsService struct {
	CompleteTaskFunc   func(ctx context.Context, userID, taskID string) (*ports.CompletionResult, error)
	CreditReferralFunc func(ctx context.Context, referrerID, referredUserID string, plan domain.Plan) (float64, error)
	DashboardStatsFunc func(ctx context.Context, userID string) (*ports.DashboardStats, error)
	RecentEarningsFunc func(ctx context.Context, userID string, limit int) ([]domain.Earning, error)
	ReferralStatsFunc  func(ctx context.Context, userID string) (*ports.ReferralStats, error)
}

func (m *MockEarningsService) CompleteTask(ctx context.Context, userID, taskID string) (*ports.CompletionResult, error) {
	if m.CompleteTaskFunc != nil {
		return m.CompleteTaskFunc(ctx, userID, taskID)
	}
	return &ports.CompletionResult{}, nil
}

func (m *MockEarningsService) CreditReferral(ctx context.Context, referrerID, referredUserID string, plan domain.Plan) (float64, error) {
	if m.CreditReferralFunc != nil {
		return m.CreditReferralFunc(ctx, referrerID, referredUserID, plan)
	}
	return 0, nil
}

func (m *MockEarningsService) DashboardStats(ctx context.Context, userID string) (*ports.DashboardStats, error) {
	if m.DashboardStatsFunc != nil {
		return m.DashboardStatsFunc(ctx, userID)
	}
	return &ports.DashboardStats{}, nil
}

func (m *MockEarningsService) RecentEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error) {
	if m.RecentEarningsFunc != nil {
		return m.RecentEarningsFunc(ctx, userID, limit)
	}
	return []domain.Earning{}, nil
}

func (m *MockEarningsService) ReferralStats(ctx context.Context, userID string) (*ports.ReferralStats, error) {
	if m.ReferralStatsFunc != nil {
		return m.ReferralStatsFunc(ctx, userID)
	}
	return &ports.ReferralStats{}, nil
}

// MockVerificationService is a mock implementation of VerificationService
type MockVerificationService struct {
	SendCodeFunc   func(ctx context.Context, channel ports.VerificationChannel, destination string) error
	VerifyCodeFunc func(ctx context.Context, channel ports.VerificationChannel, destination, code string) error
}

func (m *MockVerificationService) SendCode(ctx context.Context, channel ports.VerificationChannel, destination string) error {
	if m.SendCodeFunc != nil {
		return m.SendCodeFunc(ctx, channel, destination)
	}
	return nil
}

func (m *MockVerificationService) VerifyCode(ctx context.Context, channel ports.VerificationChannel, destination, code string) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, channel, destination, code)
	}
	return nil
}

// MockEmailService is a mock implementation of EmailService
type MockEmailService struct {
	SendFunc                  func(ctx context.Context, to, subject, body string) error
	SendHTMLFunc              func(ctx context.Context, to, subject, htmlBody string) error
	SendTemplateFunc          func(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendVerificationCodeFunc  func(ctx context.Context, to, code string) error
	SendWelcomeFunc           func(ctx context.Context, user *domain.User) error
	SendWithdrawalRequestFunc func(ctx context.Context, user *domain.User, req *domain.WithdrawalRequest) error
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

func (m *MockEmailService) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	if m.SendTemplateFunc != nil {
		return m.SendTemplateFunc(ctx, to, templateName, data)
	}
	return nil
}

func (m *MockEmailService) SendVerificationCode(ctx context.Context, to, code string) error {
	if m.SendVerificationCodeFunc != nil {
		return m.SendVerificationCodeFunc(ctx, to, code)
	}
	return nil
}

func (m *MockEmailService) SendWelcome(ctx context.Context, user *domain.User) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, user)
	}
	return nil
}

func (m *MockEmailService) SendWithdrawalRequest(ctx context.Context, user *domain.User, req *domain.WithdrawalRequest) error {
	if m.SendWithdrawalRequestFunc != nil {
		return m.SendWithdrawalRequestFunc(ctx, user, req)
	}
	return nil
}

// MockSMSSender is a mock implementation of SMSSender
type MockSMSSender struct {
	SendSMSFunc func(ctx context.Context, to, message string) error
	Sent        []string
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, to, message)
	}
	m.Sent = append(m.Sent, message)
	return nil
}
