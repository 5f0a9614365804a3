package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type ShareLinkRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewShareLinkRepository(db *gorm.DB, log *zap.Logger) ports.ShareLinkRepository {
	return &ShareLinkRepository{
		db:  db,
		log: log,
	}
}

func (r *ShareLinkRepository) Save(ctx context.Context, link *domain.ShareLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *ShareLinkRepository) FindByUserAndPlatform(ctx context.Context, userID, platform string) (*domain.ShareLink, error) {
	var link domain.ShareLink
	err := r.db.WithContext(ctx).
		First(&link, "user_id = ? AND platform = ?", userID, platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *ShareLinkRepository) FindByTrackingCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	var link domain.ShareLink
	err := r.db.WithContext(ctx).First(&link, "tracking_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// RecordClick stores the click row and bumps the link counter in one
// transaction.
func (r *ShareLinkRepository) RecordClick(ctx context.Context, click *domain.ShareClick) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(click).Error; err != nil {
			return err
		}
		return tx.Model(&domain.ShareLink{}).
			Where("tracking_code = ?", click.TrackingCode).
			Update("clicks", gorm.Expr("clicks + 1")).Error
	})
}
