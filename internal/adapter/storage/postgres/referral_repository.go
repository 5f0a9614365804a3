package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type ReferralRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReferralRepository(db *gorm.DB, log *zap.Logger) ports.ReferralRepository {
	return &ReferralRepository{
		db:  db,
		log: log,
	}
}

func (r *ReferralRepository) FindByReferrerID(ctx context.Context, referrerID string) ([]domain.Referral, error) {
	var referrals []domain.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&referrals).Error
	return referrals, err
}

func (r *ReferralRepository) CountByReferrerID(ctx context.Context, referrerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	return count, err
}

func (r *ReferralRepository) SumCommissionByReferrerID(ctx context.Context, referrerID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("referrer_id = ?", referrerID).
		Select("COALESCE(SUM(commission), 0)").
		Scan(&total).Error
	return total, err
}
