package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/ports"
)

// LedgerRepository performs the money-affecting writes. Every mutation
// runs inside a single database transaction so a failure never leaves
// a balance incremented without its ledger row.
type LedgerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedgerRepository(db *gorm.DB, log *zap.Logger) ports.LedgerRepository {
	return &LedgerRepository{
		db:  db,
		log: log,
	}
}

func (r *LedgerRepository) RecordTaskCompletion(ctx context.Context, user *domain.User, task *domain.Task) (*domain.UserTask, error) {
	timer := prometheus.NewTimer(telemetry.DatabaseLatency)
	defer timer.ObserveDuration()

	now := time.Now()
	completion := &domain.UserTask{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		TaskID:      task.ID,
		RewardPaid:  task.Reward,
		CompletedAt: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The unique (user_id, task_id) index is the concurrency
		// guard: the first writer wins, the second aborts here.
		if err := tx.Create(completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrTaskAlreadyCompleted
			}
			return err
		}

		earning := &domain.Earning{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Amount:      task.Reward,
			Type:        domain.EarningTypeTaskCompletion,
			Description: fmt.Sprintf("Completed: %s", task.Title),
			ReferenceID: task.ID,
			CreatedAt:   now,
		}
		if err := tx.Create(earning).Error; err != nil {
			return err
		}

		return tx.Model(&domain.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"total_earnings":  gorm.Expr("total_earnings + ?", task.Reward),
				"current_balance": gorm.Expr("current_balance + ?", task.Reward),
				"tasks_completed": gorm.Expr("tasks_completed + 1"),
				"updated_at":      now,
			}).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrTaskAlreadyCompleted) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "task completion", Err: err}
	}
	return completion, nil
}

func (r *LedgerRepository) RecordReferralCommission(ctx context.Context, referral *domain.Referral, earning *domain.Earning) error {
	timer := prometheus.NewTimer(telemetry.DatabaseLatency)
	defer timer.ObserveDuration()

	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(referral).Error; err != nil {
			return err
		}
		if err := tx.Create(earning).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where("id = ?", referral.ReferrerID).
			Updates(map[string]interface{}{
				"total_earnings":  gorm.Expr("total_earnings + ?", referral.Commission),
				"current_balance": gorm.Expr("current_balance + ?", referral.Commission),
				"updated_at":      now,
			}).Error
	})
	if err != nil {
		return &domain.PersistenceError{Op: "referral commission", Err: err}
	}
	return nil
}

func (r *LedgerRepository) HasCompleted(ctx context.Context, userID, taskID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserTask{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Count(&count).Error
	return count > 0, err
}

func (r *LedgerRepository) CompletedTaskIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.UserTask{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &ids).Error
	return ids, err
}

func (r *LedgerRepository) FindEarnings(ctx context.Context, userID string, limit int) ([]domain.Earning, error) {
	var earnings []domain.Earning
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&earnings).Error
	return earnings, err
}

func (r *LedgerRepository) SumEarnings(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Earning{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *LedgerRepository) SumEarningsByType(ctx context.Context, userID string, typ domain.EarningType) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Earning{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
