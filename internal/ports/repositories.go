package ports

import (
	"context"

	"github.com/paradox-app/paradox/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindAll(ctx context.Context) ([]domain.Task, error)
	FindActiveForPlan(ctx context.Context, plan domain.Plan) ([]domain.Task, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// LedgerRepository applies money-affecting writes. Each method runs in
// a single transaction; a failure leaves no partial writes.
type LedgerRepository interface {
	// RecordTaskCompletion inserts the UserTask row, appends the
	// Earning entry and increments the user's balances in one
	// transaction. Returns domain.ErrTaskAlreadyCompleted when the
	// (user, task) pair already exists.
	RecordTaskCompletion(ctx context.Context, user *domain.User, task *domain.Task) (*domain.UserTask, error)

	// RecordReferralCommission inserts the Referral row, appends the
	// referrer's Earning entry and increments the referrer's balances
	// in one transaction.
	RecordReferralCommission(ctx context.Context, referral *domain.Referral, earning *domain.Earning) error

	HasCompleted(ctx context.Context, userID, taskID string) (bool, error)
	CompletedTaskIDs(ctx context.Context, userID string) ([]string, error)
	FindEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error)
	SumEarnings(ctx context.Context, userID string) (float64, error)
	SumEarningsByType(ctx context.Context, userID string, typ domain.EarningType) (float64, error)
}

type ReferralRepository interface {
	FindByReferrerID(ctx context.Context, referrerID string) ([]domain.Referral, error)
	CountByReferrerID(ctx context.Context, referrerID string) (int64, error)
	SumCommissionByReferrerID(ctx context.Context, referrerID string) (float64, error)
}

type WithdrawalRepository interface {
	Save(ctx context.Context, req *domain.WithdrawalRequest) error
	FindByUserID(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error)
}

type CouponRepository interface {
	Save(ctx context.Context, coupon *domain.Coupon) error
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	MarkUsed(ctx context.Context, code string) error
}

type ShareLinkRepository interface {
	Save(ctx context.Context, link *domain.ShareLink) error
	FindByUserAndPlatform(ctx context.Context, userID, platform string) (*domain.ShareLink, error)
	FindByTrackingCode(ctx context.Context, code string) (*domain.ShareLink, error)
	RecordClick(ctx context.Context, click *domain.ShareClick) error
}
