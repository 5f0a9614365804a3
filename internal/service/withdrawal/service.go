package withdrawal

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Service is the withdrawal gate. It decides eligibility from the
// monthly window and the plan minimums, records accepted requests and
// notifies the back office. No balance is deducted here; settlement is
// manual.
type Service struct {
	users       ports.UserRepository
	ledger      ports.LedgerRepository
	withdrawals ports.WithdrawalRepository
	email       ports.EmailService
	queue       EventPublisher
	adminEmail  string
	windowDays  int
	processing  time.Duration
	now         func() time.Time
	log         *zap.Logger
}

// EventPublisher pushes accepted withdrawals onto the message bus.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

func NewService(
	users ports.UserRepository,
	ledger ports.LedgerRepository,
	withdrawals ports.WithdrawalRepository,
	email ports.EmailService,
	queue EventPublisher,
	cfg config.WithdrawalConfig,
	adminEmail string,
	log *zap.Logger,
) *Service {
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	processingHours := cfg.ProcessingHours
	if processingHours <= 0 {
		processingHours = 48
	}
	return &Service{
		users:       users,
		ledger:      ledger,
		withdrawals: withdrawals,
		email:       email,
		queue:       queue,
		adminEmail:  adminEmail,
		windowDays:  windowDays,
		processing:  time.Duration(processingHours) * time.Hour,
		now:         time.Now,
		log:         log,
	}
}

func (s *Service) WindowStatus(now time.Time) ports.WindowStatus {
	if isWindowOpen(now, s.windowDays) {
		return ports.WindowStatus{Open: true}
	}
	return ports.WindowStatus{Open: false, DaysUntilOpen: daysUntilWindow(now, s.windowDays)}
}

// CheckEligibility verifies the window and the stream balance against
// the user's plan minimum. The window check runs first: a closed
// window is reported even when the balance is also short.
func (s *Service) CheckEligibility(ctx context.Context, userID string, stream domain.WithdrawalType) error {
	now := s.now()
	if !isWindowOpen(now, s.windowDays) {
		return &domain.WindowClosedError{DaysUntilOpen: daysUntilWindow(now, s.windowDays)}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return domain.ErrNotFound
	}

	balance, minimum, err := s.streamBalance(ctx, user, stream)
	if err != nil {
		return err
	}
	if balance < minimum {
		return &domain.InsufficientBalanceError{Stream: stream, Minimum: minimum, Balance: balance}
	}
	return nil
}

// Submit validates in order: window, balance, required fields. An
// accepted request is persisted as pending with a processing deadline;
// the admin email is best effort and never blocks acceptance.
func (s *Service) Submit(ctx context.Context, sub *ports.WithdrawalSubmission) (*domain.WithdrawalRequest, error) {
	if sub.WithdrawalType != domain.WithdrawalTypeTask && sub.WithdrawalType != domain.WithdrawalTypeReferral {
		return nil, &domain.ValidationError{Field: "withdrawalType", Message: "must be task or referral"}
	}

	if err := s.CheckEligibility(ctx, sub.UserID, sub.WithdrawalType); err != nil {
		return nil, err
	}

	if strings.TrimSpace(sub.AccountName) == "" {
		return nil, &domain.ValidationError{Field: "accountName", Message: "account name is required"}
	}
	if !accountNumberPattern.MatchString(sub.AccountNumber) {
		return nil, &domain.ValidationError{Field: "accountNumber", Message: "account number must be 10 digits"}
	}
	if strings.TrimSpace(sub.BankName) == "" {
		return nil, &domain.ValidationError{Field: "bankName", Message: "bank name is required"}
	}
	if sub.Amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "amount must be positive"}
	}

	now := s.now()
	req := &domain.WithdrawalRequest{
		ID:                 uuid.NewString(),
		UserID:             sub.UserID,
		AccountName:        strings.TrimSpace(sub.AccountName),
		AccountNumber:      sub.AccountNumber,
		BankName:           strings.TrimSpace(sub.BankName),
		WithdrawalType:     sub.WithdrawalType,
		Amount:             sub.Amount,
		Status:             domain.WithdrawalStatusPending,
		RequestDate:        now,
		ProcessingDeadline: now.Add(s.processing),
	}

	if err := s.withdrawals.Save(ctx, req); err != nil {
		return nil, &domain.PersistenceError{Op: "withdrawal save", Err: err}
	}

	telemetry.WithdrawalRequestsTotal.Inc()
	s.notifyAdmin(ctx, req)
	s.publishEvent(req)

	s.log.Info("Withdrawal request accepted",
		zap.String("user_id", sub.UserID),
		zap.String("type", string(sub.WithdrawalType)),
		zap.Float64("amount", sub.Amount),
		zap.Time("processing_deadline", req.ProcessingDeadline),
	)
	return req, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error) {
	requests, err := s.withdrawals.FindByUserID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "withdrawal history", Err: err}
	}
	return requests, nil
}

func (s *Service) streamBalance(ctx context.Context, user *domain.User, stream domain.WithdrawalType) (balance, minimum float64, err error) {
	terms := user.Plan.Terms()
	switch stream {
	case domain.WithdrawalTypeReferral:
		minimum = terms.MinReferralWithdraw
		balance, err = s.ledger.SumEarningsByType(ctx, user.ID, domain.EarningTypeReferralCommission)
	default:
		minimum = terms.MinIncomeWithdraw
		balance, err = s.ledger.SumEarningsByType(ctx, user.ID, domain.EarningTypeTaskCompletion)
	}
	if err != nil {
		return 0, 0, &domain.PersistenceError{Op: "balance lookup", Err: err}
	}
	return balance, minimum, nil
}

func (s *Service) notifyAdmin(ctx context.Context, req *domain.WithdrawalRequest) {
	if s.email == nil || s.adminEmail == "" {
		return
	}
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil || user == nil {
		s.log.Warn("Could not load user for withdrawal notice", zap.String("user_id", req.UserID))
		return
	}
	if err := s.email.SendWithdrawalRequest(ctx, user, req); err != nil {
		// Email notification pending; the request stays accepted.
		s.log.Warn("Withdrawal notification email failed",
			zap.String("withdrawal_id", req.ID),
			zap.Error(err),
		)
	}
}

func (s *Service) publishEvent(req *domain.WithdrawalRequest) {
	if s.queue == nil {
		return
	}
	payload := fmt.Sprintf(`{"withdrawal_id":%q,"user_id":%q,"type":%q,"amount":%.2f}`,
		req.ID, req.UserID, req.WithdrawalType, req.Amount)
	if err := s.queue.Publish("withdrawals.requested", []byte(payload)); err != nil {
		s.log.Warn("Failed to publish withdrawal event", zap.Error(err))
	}
}
