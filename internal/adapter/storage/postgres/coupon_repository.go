package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type CouponRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCouponRepository(db *gorm.DB, log *zap.Logger) ports.CouponRepository {
	return &CouponRepository{
		db:  db,
		log: log,
	}
}

func (r *CouponRepository) Save(ctx context.Context, coupon *domain.Coupon) error {
	err := r.db.WithContext(ctx).Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.DuplicateError{Field: "coupon code"}
	}
	return err
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepository) MarkUsed(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Coupon{}).
		Where("code = ?", code).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
