package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type WithdrawalRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWithdrawalRepository(db *gorm.DB, log *zap.Logger) ports.WithdrawalRepository {
	return &WithdrawalRepository{
		db:  db,
		log: log,
	}
}

func (r *WithdrawalRepository) Save(ctx context.Context, req *domain.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *WithdrawalRepository) FindByUserID(ctx context.Context, userID string) ([]domain.WithdrawalRequest, error) {
	var requests []domain.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("request_date desc").
		Find(&requests).Error
	return requests, err
}
