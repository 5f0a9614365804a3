package verification

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

// codeEntry is the stored OTP state. Expiry is enforced by the cache
// TTL; the attempt counter lives alongside the code so a lockout
// survives until the entry expires or is consumed. ExpiresAt pins the
// original deadline so rewriting the entry after a wrong guess never
// extends the code's lifetime.
type codeEntry struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues and checks one-time codes for email and phone
// verification. All state lives in the injected cache; the mutex
// serializes attempt counting so concurrent guesses cannot bypass the
// lockout.
type Service struct {
	cache       ports.Cache
	email       ports.EmailService
	sms         ports.SMSSender
	emailTTL    time.Duration
	phoneTTL    time.Duration
	maxAttempts int
	mu          sync.Mutex
	log         *zap.Logger
}

func NewService(cache ports.Cache, email ports.EmailService, sms ports.SMSSender, cfg config.VerificationConfig, log *zap.Logger) *Service {
	emailTTL := cfg.EmailCodeTTL
	if emailTTL <= 0 {
		emailTTL = 15 * time.Minute
	}
	phoneTTL := cfg.PhoneCodeTTL
	if phoneTTL <= 0 {
		phoneTTL = 10 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Service{
		cache:       cache,
		email:       email,
		sms:         sms,
		emailTTL:    emailTTL,
		phoneTTL:    phoneTTL,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// SendCode generates a fresh 6-digit code, stores it under the channel
// key and delivers it. Resending replaces any previous code and resets
// the attempt counter.
func (s *Service) SendCode(ctx context.Context, channel ports.VerificationChannel, destination string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	ttl := s.emailTTL
	if channel == ports.VerificationChannelPhone {
		ttl = s.phoneTTL
	}
	entry, _ := json.Marshal(codeEntry{Code: code, ExpiresAt: time.Now().Add(ttl)})
	if err := s.cache.Set(ctx, cacheKey(channel, destination), entry, ttl); err != nil {
		return &domain.PersistenceError{Op: "code store", Err: err}
	}

	switch channel {
	case ports.VerificationChannelPhone:
		if s.sms == nil {
			s.log.Warn("SMS sender not configured, code stored but not delivered")
			return nil
		}
		msg := fmt.Sprintf("Your Paradox verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
		if err := s.sms.SendSMS(ctx, destination, msg); err != nil {
			// Delivery is best effort; the code stays valid.
			s.log.Warn("SMS code delivery failed", zap.Error(err))
		}
	default:
		if err := s.email.SendVerificationCode(ctx, destination, code); err != nil {
			s.log.Warn("Email code delivery failed", zap.Error(err))
		}
	}

	s.log.Info("Verification code issued",
		zap.String("channel", string(channel)),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// VerifyCode checks a submitted code. Wrong guesses increment the
// attempt counter; hitting the limit deletes the code entirely.
func (s *Service) VerifyCode(ctx context.Context, channel ports.VerificationChannel, destination, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey(channel, destination)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		telemetry.VerificationAttemptsTotal.WithLabelValues(string(channel), "expired").Inc()
		return &domain.ValidationError{Field: "code", Message: "Verification code expired or not found. Please request a new code."}
	}

	var entry codeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.cache.Delete(ctx, key)
		return &domain.ValidationError{Field: "code", Message: "Verification code expired or not found. Please request a new code."}
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		s.cache.Delete(ctx, key)
		telemetry.VerificationAttemptsTotal.WithLabelValues(string(channel), "expired").Inc()
		return &domain.ValidationError{Field: "code", Message: "Verification code expired or not found. Please request a new code."}
	}

	if entry.Code != code {
		entry.Attempts++
		remaining := s.maxAttempts - entry.Attempts
		telemetry.VerificationAttemptsTotal.WithLabelValues(string(channel), "failed").Inc()
		if remaining <= 0 {
			s.cache.Delete(ctx, key)
			return &domain.ValidationError{Field: "code", Message: "Too many failed attempts. Please request a new code."}
		}
		// Rewrite with the remaining lifetime so counting a failed
		// attempt never pushes the deadline out.
		ttl := time.Until(entry.ExpiresAt)
		if entry.ExpiresAt.IsZero() {
			ttl = s.emailTTL
			if channel == ports.VerificationChannelPhone {
				ttl = s.phoneTTL
			}
		}
		updated, _ := json.Marshal(entry)
		if err := s.cache.Set(ctx, key, updated, ttl); err != nil {
			s.log.Warn("Failed to persist attempt counter", zap.Error(err))
		}
		return &domain.ValidationError{
			Field:   "code",
			Message: fmt.Sprintf("Invalid code. %d attempts remaining.", remaining),
		}
	}

	s.cache.Delete(ctx, key)
	telemetry.VerificationAttemptsTotal.WithLabelValues(string(channel), "verified").Inc()
	return nil
}

func cacheKey(channel ports.VerificationChannel, destination string) string {
	return fmt.Sprintf("verify:%s:%s", channel, destination)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
