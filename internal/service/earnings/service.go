package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/ports"
)

// Service is the earnings engine. It applies task rewards and referral
// commissions through the ledger repository, which guarantees each
// credit lands atomically.
type Service struct {
	users     ports.UserRepository
	tasks     ports.TaskRepository
	ledger    ports.LedgerRepository
	referrals ports.ReferralRepository
	queue     EventPublisher
	log       *zap.Logger
}

// EventPublisher pushes credit events for background consumers
// (websocket hub, metrics workers). Publishing is best effort.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

func NewService(
	users ports.UserRepository,
	tasks ports.TaskRepository,
	ledger ports.LedgerRepository,
	referrals ports.ReferralRepository,
	queue EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		users:     users,
		tasks:     tasks,
		ledger:    ledger,
		referrals: referrals,
		queue:     queue,
		log:       log,
	}
}

// CompleteTask credits a task reward. The UserTask insert, the Earning
// append and the balance increments happen in one transaction; a
// duplicate (user, task) pair fails with ErrTaskAlreadyCompleted and
// changes nothing.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID string) (*ports.CompletionResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "task lookup", Err: err}
	}
	if task == nil || !task.IsActive {
		return nil, domain.ErrTaskUnavailable
	}
	if !task.VisibleTo(user.Plan) {
		return nil, domain.ErrTaskUnavailable
	}

	completion, err := s.ledger.RecordTaskCompletion(ctx, user, task)
	if err != nil {
		if errors.Is(err, domain.ErrTaskAlreadyCompleted) {
			return nil, err
		}
		s.log.Error("Task completion failed",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.TasksCompletedTotal.Inc()
	telemetry.EarningsCreditedTotal.Add(task.Reward)
	s.publishEvent("earnings.task_completed", fmt.Sprintf(
		`{"user_id":%q,"task_id":%q,"reward":%.2f}`, userID, taskID, completion.RewardPaid))

	s.log.Info("Task completed",
		zap.String("user_id", userID),
		zap.String("task_id", taskID),
		zap.Float64("reward", completion.RewardPaid),
	)

	return &ports.CompletionResult{
		Reward:         completion.RewardPaid,
		CurrentBalance: user.CurrentBalance + completion.RewardPaid,
		TotalEarnings:  user.TotalEarnings + completion.RewardPaid,
		TasksCompleted: user.TasksCompleted + 1,
	}, nil
}

// CreditReferral pays the referrer their one-time commission for a
// paid-plan signup. Called exactly once, at the referred user's
// creation; a free plan credits nothing.
func (s *Service) CreditReferral(ctx context.Context, referrerID, referredUserID string, plan domain.Plan) (float64, error) {
	commission := plan.Terms().ReferralCommission
	if commission <= 0 {
		return 0, nil
	}

	referrer, err := s.users.FindByID(ctx, referrerID)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "referrer lookup", Err: err}
	}
	if referrer == nil {
		return 0, domain.ErrNotFound
	}

	now := time.Now()
	referral := &domain.Referral{
		ID:             uuid.NewString(),
		ReferrerID:     referrerID,
		ReferredUserID: referredUserID,
		Commission:     commission,
		IsPaid:         true,
		CreatedAt:      now,
	}
	earning := &domain.Earning{
		ID:          uuid.NewString(),
		UserID:      referrerID,
		Amount:      commission,
		Type:        domain.EarningTypeReferralCommission,
		Description: fmt.Sprintf("Referral commission (%s plan)", plan),
		ReferenceID: referredUserID,
		CreatedAt:   now,
	}

	if err := s.ledger.RecordReferralCommission(ctx, referral, earning); err != nil {
		s.log.Error("Referral commission failed",
			zap.String("referrer_id", referrerID),
			zap.String("referred_user_id", referredUserID),
			zap.Error(err),
		)
		return 0, err
	}

	telemetry.ReferralCommissionsTotal.Inc()
	telemetry.EarningsCreditedTotal.Add(commission)
	s.publishEvent("earnings.referral_credited", fmt.Sprintf(
		`{"referrer_id":%q,"referred_user_id":%q,"commission":%.2f}`, referrerID, referredUserID, commission))

	s.log.Info("Referral commission credited",
		zap.String("referrer_id", referrerID),
		zap.String("plan", string(plan)),
		zap.Float64("commission", commission),
	)
	return commission, nil
}

func (s *Service) DashboardStats(ctx context.Context, userID string) (*ports.DashboardStats, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	taskBalance, err := s.ledger.SumEarningsByType(ctx, userID, domain.EarningTypeTaskCompletion)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "task balance", Err: err}
	}
	referralBalance, err := s.ledger.SumEarningsByType(ctx, userID, domain.EarningTypeReferralCommission)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "referral balance", Err: err}
	}
	referralCount, err := s.referrals.CountByReferrerID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "referral count", Err: err}
	}

	return &ports.DashboardStats{
		TotalEarnings:   user.TotalEarnings,
		CurrentBalance:  user.CurrentBalance,
		TaskBalance:     taskBalance,
		ReferralBalance: referralBalance,
		TasksCompleted:  user.TasksCompleted,
		ReferralCount:   referralCount,
		Plan:            string(user.Plan),
		ReferralCode:    user.ReferralCode,
	}, nil
}

func (s *Service) RecentEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error) {
	if limit <= 0 {
		limit = 20
	}
	earnings, err := s.ledger.FindEarnings(ctx, userID, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "earnings lookup", Err: err}
	}
	return earnings, nil
}

func (s *Service) ReferralStats(ctx context.Context, userID string) (*ports.ReferralStats, error) {
	referrals, err := s.referrals.FindByReferrerID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "referrals lookup", Err: err}
	}
	total, err := s.referrals.SumCommissionByReferrerID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "commission sum", Err: err}
	}
	return &ports.ReferralStats{
		TotalReferrals:  int64(len(referrals)),
		TotalCommission: total,
		Referrals:       referrals,
	}, nil
}

func (s *Service) publishEvent(subject, payload string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Publish(subject, []byte(payload)); err != nil {
		s.log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
