package ports

import (
	"context"
	"time"

	"github.com/paradox-app/paradox/internal/domain"
)

// SignupRequest carries the fields posted at registration.
type SignupRequest struct {
	FullName     string `json:"fullname"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Plan         string `json:"plan"`
	CouponCode   string `json:"couponCode"`
	ReferralCode string `json:"referralCode"`
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*domain.User, error)
	Login(ctx context.Context, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
	PhoneAvailable(ctx context.Context, phone string) (bool, error)
}

// CouponValidation is the outcome of checking a code against a plan.
type CouponValidation struct {
	Valid           bool        `json:"valid"`
	DiscountPercent int         `json:"discount,omitempty"`
	ValidPlan       domain.Plan `json:"validPlan,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// CouponService resolves roles and coupon requirements at signup and
// manages the coupon catalog.
type CouponService interface {
	Classify(phone string) domain.UserType
	CouponRequired(userType domain.UserType, plan domain.Plan) bool
	ValidateCoupon(ctx context.Context, code string, plan domain.Plan) (*CouponValidation, error)
	RedeemCoupon(ctx context.Context, code string) error
	GenerateCoupon(ctx context.Context, createdBy string, plan domain.Plan, discountPercent int) (*domain.Coupon, error)
}

// CompletionResult reports the user's state after a task credit.
type CompletionResult struct {
	Reward         float64 `json:"reward"`
	CurrentBalance float64 `json:"current_balance"`
	TotalEarnings  float64 `json:"total_earnings"`
	TasksCompleted int     `json:"tasks_completed"`
}

// DashboardStats is the per-user overview shown after login.
type DashboardStats struct {
	TotalEarnings   float64 `json:"total_earnings"`
	CurrentBalance  float64 `json:"current_balance"`
	TaskBalance     float64 `json:"task_balance"`
	ReferralBalance float64 `json:"referral_balance"`
	TasksCompleted  int     `json:"tasks_completed"`
	ReferralCount   int64   `json:"referral_count"`
	Plan            string  `json:"plan"`
	ReferralCode    string  `json:"referral_code"`
}

// ReferralStats summarizes a user's referral activity.
type ReferralStats struct {
	TotalReferrals  int64             `json:"total_referrals"`
	TotalCommission float64           `json:"total_commission"`
	Referrals       []domain.Referral `json:"referrals"`
}

type EarningsService interface {
	CompleteTask(ctx context.Context, userID, taskID string) (*CompletionResult, error)
	CreditReferral(ctx context.Context, referrerID, referredUserID string, plan domain.Plan) (float64, error)
	DashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
	RecentEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error)
	ReferralStats(ctx context.Context, userID string) (*ReferralStats, error)
}

// WithdrawalSubmission carries the fields posted with a withdrawal
// request.
type WithdrawalSubmission struct {
	UserID         string                `json:"-"`
	AccountName    string                `json:"accountName"`
	AccountNumber  string                `json:"accountNumber"`
	BankName       string                `json:"bankName"`
	WithdrawalType domain.WithdrawalType `json:"withdrawalType"`
	Amount         float64               `json:"amount"`
}

// WindowStatus reports the monthly withdrawal window.
type WindowStatus struct {
	Open          bool `json:"open"`
	DaysUntilOpen int  `json:"days_until_open,omitempty"`
}

type WithdrawalService interface {
	WindowStatus(now time.Time) WindowStatus
	CheckEligibility(ctx context.Context, userID string, stream domain.WithdrawalType) error
	Submit(ctx context.Context, sub *WithdrawalSubmission) (*domain.WithdrawalRequest, error)
	History(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error)
}

type VerificationChannel string

const (
	VerificationChannelEmail VerificationChannel = "email"
	VerificationChannelPhone VerificationChannel = "phone"
)

type VerificationService interface {
	SendCode(ctx context.Context, channel VerificationChannel, destination string) error
	VerifyCode(ctx context.Context, channel VerificationChannel, destination, code string) error
}

type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendVerificationCode(ctx context.Context, to, code string) error
	SendWelcome(ctx context.Context, user *domain.User) error
	SendWithdrawalRequest(ctx context.Context, user *domain.User, req *domain.WithdrawalRequest) error
}

// SMSSender delivers one-time codes over SMS. Failures are logged and
// do not fail the calling flow.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type TaskService interface {
	AvailableTasks(ctx context.Context, userID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, creator *domain.User, task *domain.Task) (*domain.Task, error)
	SetTaskActive(ctx context.Context, actor *domain.User, taskID string, active bool) error
	ListAll(ctx context.Context, actor *domain.User) ([]domain.Task, error)
}

type ShareService interface {
	GetOrCreateLink(ctx context.Context, userID, platform string) (*domain.ShareLink, error)
	RecordClick(ctx context.Context, trackingCode, userAgent, ip string) (*domain.ShareLink, error)
}
