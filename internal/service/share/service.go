package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

// Service issues referral share links with tracking codes and records
// clicks through them.
type Service struct {
	links   ports.ShareLinkRepository
	users   ports.UserRepository
	baseURL string
	log     *zap.Logger
}

func NewService(links ports.ShareLinkRepository, users ports.UserRepository, baseURL string, log *zap.Logger) *Service {
	return &Service{
		links:   links,
		users:   users,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// GetOrCreateLink returns the user's tracking link for a platform,
// creating it on first use.
func (s *Service) GetOrCreateLink(ctx context.Context, userID, platform string) (*domain.ShareLink, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return nil, &domain.ValidationError{Field: "platform", Message: "platform is required"}
	}

	existing, err := s.links.FindByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "share link lookup", Err: err}
	}
	if existing != nil {
		return existing, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	trackingCode := "TRK_" + randomHex(6)
	link := &domain.ShareLink{
		ID:           uuid.NewString(),
		UserID:       userID,
		Platform:     platform,
		TrackingCode: trackingCode,
		URL:          fmt.Sprintf("%s/join?ref=%s&t=%s", s.baseURL, user.ReferralCode, trackingCode),
		CreatedAt:    time.Now(),
	}
	if err := s.links.Save(ctx, link); err != nil {
		return nil, &domain.PersistenceError{Op: "share link create", Err: err}
	}

	s.log.Info("Share link created",
		zap.String("user_id", userID),
		zap.String("platform", platform),
		zap.String("tracking_code", trackingCode),
	)
	return link, nil
}

// RecordClick stores a click against a tracking code and returns the
// link so the caller can redirect to the signup page.
func (s *Service) RecordClick(ctx context.Context, trackingCode, userAgent, ip string) (*domain.ShareLink, error) {
	link, err := s.links.FindByTrackingCode(ctx, trackingCode)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "share link lookup", Err: err}
	}
	if link == nil {
		return nil, domain.ErrNotFound
	}

	click := &domain.ShareClick{
		ID:           uuid.NewString(),
		TrackingCode: trackingCode,
		UserAgent:    userAgent,
		IPAddress:    ip,
		ClickedAt:    time.Now(),
	}
	if err := s.links.RecordClick(ctx, click); err != nil {
		return nil, &domain.PersistenceError{Op: "share click record", Err: err}
	}
	return link, nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
