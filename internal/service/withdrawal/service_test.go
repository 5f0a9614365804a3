package withdrawal

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/mocks"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// newTestService pins the clock to a date inside the January window.
func newTestService(users *mocks.MockUserRepository, ledger *mocks.MockLedgerRepository, withdrawals *mocks.MockWithdrawalRepository, email *mocks.MockEmailService, queue *mocks.MockMessageQueue) *Service {
	var publisher EventPublisher
	if queue != nil {
		publisher = queue
	}
	s := NewService(users, ledger, withdrawals, email, publisher, config.WithdrawalConfig{}, "ops@viprus.com", newTestLogger())
	s.now = func() time.Time { return day(2025, time.January, 28) }
	return s
}

func standardUser() *mocks.MockUserRepository {
	return &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Plan: domain.PlanStandard, Email: "user@example.com"}, nil
		},
	}
}

func validSubmission() *ports.WithdrawalSubmission {
	return &ports.WithdrawalSubmission{
		UserID:         "user-1",
		AccountName:    "Ada Obi",
		AccountNumber:  "0123456789",
		BankName:       "GTBank",
		WithdrawalType: domain.WithdrawalTypeTask,
		Amount:         70000,
	}
}

func TestSubmit_Success(t *testing.T) {
	// Arrange
	var saved *domain.WithdrawalRequest
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			return 80000, nil // above the standard plan's 69000 minimum
		},
	}
	withdrawals := &mocks.MockWithdrawalRepository{
		SaveFunc: func(ctx context.Context, req *domain.WithdrawalRequest) error {
			saved = req
			return nil
		},
	}
	queue := mocks.NewMockMessageQueue()
	service := newTestService(standardUser(), ledger, withdrawals, &mocks.MockEmailService{}, queue)

	// Act
	req, err := service.Submit(context.Background(), validSubmission())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected request to be saved")
	}
	if req.Status != domain.WithdrawalStatusPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
	wantDeadline := day(2025, time.January, 28).Add(48 * time.Hour)
	if !req.ProcessingDeadline.Equal(wantDeadline) {
		t.Errorf("expected deadline %v, got %v", wantDeadline, req.ProcessingDeadline)
	}
	if len(queue.PublishedMessages["withdrawals.requested"]) != 1 {
		t.Error("expected a withdrawal event to be published")
	}
}

func TestSubmit_ClosedWindowWinsOverLowBalance(t *testing.T) {
	// Arrange: balance is also short, but the window error must surface.
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			return 100, nil
		},
	}
	service := newTestService(standardUser(), ledger, &mocks.MockWithdrawalRepository{}, &mocks.MockEmailService{}, nil)
	service.now = func() time.Time { return day(2025, time.January, 10) }

	// Act
	_, err := service.Submit(context.Background(), validSubmission())

	// Assert
	var windowErr *domain.WindowClosedError
	if !errors.As(err, &windowErr) {
		t.Fatalf("expected WindowClosedError, got %v", err)
	}
	if windowErr.DaysUntilOpen != 15 {
		t.Errorf("expected 15 days until open, got %d", windowErr.DaysUntilOpen)
	}
}

func TestSubmit_InsufficientBalanceShortfall(t *testing.T) {
	// Arrange
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			return 50000, nil
		},
	}
	service := newTestService(standardUser(), ledger, &mocks.MockWithdrawalRepository{}, &mocks.MockEmailService{}, nil)

	// Act
	_, err := service.Submit(context.Background(), validSubmission())

	// Assert
	var balErr *domain.InsufficientBalanceError
	if !errors.As(err, &balErr) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if balErr.Minimum != 69000 {
		t.Errorf("expected minimum 69000, got %.0f", balErr.Minimum)
	}
	if balErr.Shortfall() != 19000 {
		t.Errorf("expected shortfall 19000, got %.0f", balErr.Shortfall())
	}
}

func TestSubmit_ReferralStreamUsesReferralMinimum(t *testing.T) {
	// Arrange: standard plan referral minimum is 20000.
	var queriedType domain.EarningType
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			queriedType = typ
			return 25000, nil
		},
	}
	service := newTestService(standardUser(), ledger, &mocks.MockWithdrawalRepository{}, &mocks.MockEmailService{}, nil)

	sub := validSubmission()
	sub.WithdrawalType = domain.WithdrawalTypeReferral
	sub.Amount = 21000

	// Act
	_, err := service.Submit(context.Background(), sub)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if queriedType != domain.EarningTypeReferralCommission {
		t.Errorf("expected referral stream balance to be queried, got %q", queriedType)
	}
}

func TestSubmit_FieldValidation(t *testing.T) {
	// Arrange
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			return 100000, nil
		},
	}
	service := newTestService(standardUser(), ledger, &mocks.MockWithdrawalRepository{}, &mocks.MockEmailService{}, nil)

	cases := []struct {
		name   string
		mutate func(*ports.WithdrawalSubmission)
		field  string
	}{
		{"missing account name", func(s *ports.WithdrawalSubmission) { s.AccountName = " " }, "accountName"},
		{"short account number", func(s *ports.WithdrawalSubmission) { s.AccountNumber = "12345" }, "accountNumber"},
		{"alpha account number", func(s *ports.WithdrawalSubmission) { s.AccountNumber = "01234abcde" }, "accountNumber"},
		{"missing bank", func(s *ports.WithdrawalSubmission) { s.BankName = "" }, "bankName"},
		{"zero amount", func(s *ports.WithdrawalSubmission) { s.Amount = 0 }, "amount"},
		{"bad type", func(s *ports.WithdrawalSubmission) { s.WithdrawalType = "crypto" }, "withdrawalType"},
	}

	for _, tc := range cases {
		sub := validSubmission()
		tc.mutate(sub)

		// Act
		_, err := service.Submit(context.Background(), sub)

		// Assert
		var valErr *domain.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
			continue
		}
		if valErr.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.name, tc.field, valErr.Field)
		}
	}
}

func TestSubmit_EmailFailureDoesNotBlockAcceptance(t *testing.T) {
	// Arrange
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			return 80000, nil
		},
	}
	email := &mocks.MockEmailService{
		SendWithdrawalRequestFunc: func(ctx context.Context, user *domain.User, req *domain.WithdrawalRequest) error {
			return errors.New("smtp down")
		},
	}
	service := newTestService(standardUser(), ledger, &mocks.MockWithdrawalRepository{}, email, nil)

	// Act
	req, err := service.Submit(context.Background(), validSubmission())

	// Assert
	if err != nil {
		t.Fatalf("expected acceptance despite email failure, got %v", err)
	}
	if req.Status != domain.WithdrawalStatusPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
}

func TestCheckEligibility_PremiumMinimums(t *testing.T) {
	// Arrange: premium income minimum 90000, referral minimum 26000.
	users := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Plan: domain.PlanPremium}, nil
		},
	}
	ledger := &mocks.MockLedgerRepository{
		SumEarningsByTypeFunc: func(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
			if typ == domain.EarningTypeTaskCompletion {
				return 89999, nil
			}
			return 26000, nil
		},
	}
	service := newTestService(users, ledger, &mocks.MockWithdrawalRepository{}, &mocks.MockEmailService{}, nil)

	// Act / Assert
	if err := service.CheckEligibility(context.Background(), "user-1", domain.WithdrawalTypeTask); err == nil {
		t.Error("expected task stream to be ineligible one naira short")
	}
	if err := service.CheckEligibility(context.Background(), "user-1", domain.WithdrawalTypeReferral); err != nil {
		t.Errorf("expected referral stream eligible at the minimum, got %v", err)
	}
}
