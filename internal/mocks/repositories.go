package mocks

import (
	"context"

	"github.com/paradox-app/paradox/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc               func(ctx context.Context, user *domain.User) error
	FindByIDFunc           func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	FindByPhoneFunc        func(ctx context.Context, phone string) (*domain.User, error)
	FindByReferralCodeFunc func(ctx context.Context, code string) (*domain.User, error)
	UpdateFunc             func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	if m.FindByReferralCodeFunc != nil {
		return m.FindByReferralCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	SaveFunc              func(ctx context.Context, task *domain.Task) error
	FindByIDFunc          func(ctx context.Context, id string) (*domain.Task, error)
	FindAllFunc           func(ctx context.Context) ([]domain.Task, error)
	FindActiveForPlanFunc func(ctx context.Context, plan domain.Plan) ([]domain.Task, error)
	SetActiveFunc         func(ctx context.Context, id string, active bool) error
}

func (m *MockTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Task{}, nil
}

func (m *MockTaskRepository) FindActiveForPlan(ctx context.Context, plan domain.Plan) ([]domain.Task, error) {
	if m.FindActiveForPlanFunc != nil {
		return m.FindActiveForPlanFunc(ctx, plan)
	}
	return []domain.Task{}, nil
}

func (m *MockTaskRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	RecordTaskCompletionFunc     func(ctx context.Context, user *domain.User, task *domain.Task) (*domain.UserTask, error)
	RecordReferralCommissionFunc func(ctx context.Context, referral *domain.Referral, earning *domain.Earning) error
	HasCompletedFunc             func(ctx context.Context, userID, taskID string) (bool, error)
	CompletedTaskIDsFunc         func(ctx context.Context, userID string) ([]string, error)
	FindEarningsFunc             func(ctx context.Context, userID string, limit int) ([]domain.Earning, error)
	SumEarningsFunc              func(ctx context.Context, userID string) (float64, error)
	SumEarningsByTypeFunc        func(ctx context.Context, userID string, typ domain.EarningType) (float64, error)
}

func (m *MockLedgerRepository) RecordTaskCompletion(ctx context.Context, user *domain.User, task *domain.Task) (*domain.UserTask, error) {
	if m.RecordTaskCompletionFunc != nil {
		return m.RecordTaskCompletionFunc(ctx, user, task)
	}
	return &domain.UserTask{UserID: user.ID, TaskID: task.ID, RewardPaid: task.Reward}, nil
}

func (m *MockLedgerRepository) RecordReferralCommission(ctx context.Context, referral *domain.Referral, earning *domain.Earning) error {
	if m.RecordReferralCommissionFunc != nil {
		return m.RecordReferralCommissionFunc(ctx, referral, earning)
	}
	return nil
}

func (m *MockLedgerRepository) HasCompleted(ctx context.Context, userID, taskID string) (bool, error) {
	if m.HasCompletedFunc != nil {
		return m.HasCompletedFunc(ctx, userID, taskID)
	}
	return false, nil
}

func (m *MockLedgerRepository) CompletedTaskIDs(ctx context.Context, userID string) ([]string, error) {
	if m.CompletedTaskIDsFunc != nil {
		return m.CompletedTaskIDsFunc(ctx, userID)
	}
	return []string{}, nil
}

func (m *MockLedgerRepository) FindEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error) {
	if m.FindEarningsFunc != nil {
		return m.FindEarningsFunc(ctx, userID, limit)
	}
	return []domain.Earning{}, nil
}

func (m *MockLedgerRepository) SumEarnings(ctx context.Context, userID string) (float64, error) {
	if m.SumEarningsFunc != nil {
		return m.SumEarningsFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockLedgerRepository) SumEarningsByType(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
	if m.SumEarningsByTypeFunc != nil {
		return m.SumEarningsByTypeFunc(ctx, userID, typ)
	}
	return 0, nil
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	FindByReferrerIDFunc          func(ctx context.Context, referrerID string) ([]domain.Referral, error)
	CountByReferrerIDFunc         func(ctx context.Context, referrerID string) (int64, error)
	SumCommissionByReferrerIDFunc func(ctx context.Context, referrerID string) (float64, error)
}

func (m *MockReferralRepository) FindByReferrerID(ctx context.Context, referrerID string) ([]domain.Referral, error) {
	if m.FindByReferrerIDFunc != nil {
		return m.FindByReferrerIDFunc(ctx, referrerID)
	}
	return []domain.Referral{}, nil
}

func (m *MockReferralRepository) CountByReferrerID(ctx context.Context, referrerID string) (int64, error) {
	if m.CountByReferrerIDFunc != nil {
		return m.CountByReferrerIDFunc(ctx, referrerID)
	}
	return 0, nil
}

func (m *MockReferralRepository) SumCommissionByReferrerID(ctx context.Context, referrerID string) (float64, error) {
	if m.SumCommissionByReferrerIDFunc != nil {
		return m.SumCommissionByReferrerIDFunc(ctx, referrerID)
	}
	return 0, nil
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	SaveFunc         func(ctx context.Context, req *domain.WithdrawalRequest) error
	FindByUserIDFunc func(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error)
}

func (m *MockWithdrawalRepository) Save(ctx context.Context, req *domain.WithdrawalRequest) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, req)
	}
	return nil
}

func (m *MockWithdrawalRepository) FindByUserID(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return []domain.WithdrawalRequest{}, nil
}

// MockCouponRepository is a mock implementation of CouponRepository
type MockCouponRepository struct {
	SaveFunc       func(ctx context.Context, coupon *domain.Coupon) error
	FindByCodeFunc func(ctx context.Context, code string) (*domain.Coupon, error)
	MarkUsedFunc   func(ctx context.Context, code string) error
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *domain.Coupon) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, coupon)
	}
	return nil
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockCouponRepository) MarkUsed(ctx context.Context, code string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, code)
	}
	return nil
}

// MockShareLinkRepository is a mock implementation of ShareLinkRepository
type MockShareLinkRepository struct {
	SaveFunc                  func(ctx context.Context, link *domain.ShareLink) error
	FindByUserAndPlatformFunc func(ctx context.Context, userID, platform string) (*domain.ShareLink, error)
	FindByTrackingCodeFunc    func(ctx context.Context, code string) (*domain.ShareLink, error)
	RecordClickFunc           func(ctx context.Context, click *domain.ShareClick) error
}

func (m *MockShareLinkRepository) Save(ctx context.Context, link *domain.ShareLink) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, link)
	}
	return nil
}

func (m *MockShareLinkRepository) FindByUserAndPlatform(ctx context.Context, userID, platform string) (*domain.ShareLink, error) {
	if m.FindByUserAndPlatformFunc != nil {
		return m.FindByUserAndPlatformFunc(ctx, userID, platform)
	}
	return nil, nil
}

func (m *MockShareLinkRepository) FindByTrackingCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	if m.FindByTrackingCodeFunc != nil {
		return m.FindByTrackingCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockShareLinkRepository) RecordClick(ctx context.Context, click *domain.ShareClick) error {
	if m.RecordClickFunc != nil {
		return m.RecordClickFunc(ctx, click)
	}
	return nil
}
