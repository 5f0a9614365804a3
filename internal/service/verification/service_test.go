package verification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
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

func TestSendAndVerifyCode_Email(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()

	var delivered string
	email := &mocks.MockEmailService{
		SendVerificationCodeFunc: func(ctx context.Context, to, code string) error {
			delivered = code
			return nil
		},
	}
	service := NewService(cache, email, &mocks.MockSMSSender{}, config.VerificationConfig{}, newTestLogger())

	// Act
	if err := service.SendCode(ctx, ports.VerificationChannelEmail, "ada@example.com"); err != nil {
		t.Fatalf("expected no error sending code, got %v", err)
	}

	// Assert
	if len(delivered) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", delivered)
	}
	if err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", delivered); err != nil {
		t.Fatalf("expected code to verify, got %v", err)
	}

	// A consumed code cannot be replayed.
	err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", delivered)
	if err == nil {
		t.Fatal("expected replay to fail")
	}
}

func TestSendCode_PhoneUsesSMS(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()
	sms := &mocks.MockSMSSender{}
	service := NewService(cache, &mocks.MockEmailService{}, sms, config.VerificationConfig{}, newTestLogger())

	// Act
	if err := service.SendCode(ctx, ports.VerificationChannelPhone, "+2348012345678"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if len(sms.Sent) != 1 {
		t.Fatalf("expected one SMS, got %d", len(sms.Sent))
	}
	if !strings.Contains(sms.Sent[0], "verification code") {
		t.Errorf("unexpected SMS body: %q", sms.Sent[0])
	}
}

func TestVerifyCode_WrongGuessesCountDown(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()

	var delivered string
	email := &mocks.MockEmailService{
		SendVerificationCodeFunc: func(ctx context.Context, to, code string) error {
			delivered = code
			return nil
		},
	}
	service := NewService(cache, email, &mocks.MockSMSSender{}, config.VerificationConfig{MaxAttempts: 3}, newTestLogger())

	if err := service.SendCode(ctx, ports.VerificationChannelEmail, "ada@example.com"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	wrong := "000000"
	if wrong == delivered {
		wrong = "000001"
	}

	// Act / Assert: first two wrong guesses report remaining attempts.
	err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", wrong)
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) || valErr.Message != "Invalid code. 2 attempts remaining." {
		t.Fatalf("unexpected first failure: %v", err)
	}

	err = service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", wrong)
	if !errors.As(err, &valErr) || valErr.Message != "Invalid code. 1 attempts remaining." {
		t.Fatalf("unexpected second failure: %v", err)
	}

	// The third wrong guess locks the code out entirely.
	err = service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", wrong)
	if !errors.As(err, &valErr) || valErr.Message != "Too many failed attempts. Please request a new code." {
		t.Fatalf("unexpected lockout failure: %v", err)
	}

	// Even the right code is dead after the lockout.
	if err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", delivered); err == nil {
		t.Fatal("expected code to be invalid after lockout")
	}
}

func TestVerifyCode_MissingCode(t *testing.T) {
	// Arrange
	service := NewService(mocks.NewMockCache(), &mocks.MockEmailService{}, &mocks.MockSMSSender{}, config.VerificationConfig{}, newTestLogger())

	// Act
	err := service.VerifyCode(context.Background(), ports.VerificationChannelEmail, "nobody@example.com", "123456")

	// Assert
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(valErr.Message, "expired or not found") {
		t.Errorf("unexpected message: %q", valErr.Message)
	}
}

func TestSendCode_ResendReplacesCodeAndResetsAttempts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()

	var delivered string
	email := &mocks.MockEmailService{
		SendVerificationCodeFunc: func(ctx context.Context, to, code string) error {
			delivered = code
			return nil
		},
	}
	service := NewService(cache, email, &mocks.MockSMSSender{}, config.VerificationConfig{}, newTestLogger())

	if err := service.SendCode(ctx, ports.VerificationChannelEmail, "ada@example.com"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	first := delivered

	// Burn an attempt, then resend.
	wrong := "000000"
	if wrong == first {
		wrong = "000001"
	}
	service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", wrong)

	if err := service.SendCode(ctx, ports.VerificationChannelEmail, "ada@example.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}

	// Act / Assert: the fresh code verifies cleanly.
	if err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", delivered); err != nil {
		t.Fatalf("expected fresh code to verify, got %v", err)
	}
}

func TestVerifyCode_WrongGuessKeepsOriginalExpiry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := map[string]string{}
	var ttls []time.Duration
	cache := &mocks.MockCache{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			val, ok := store[key]
			if !ok {
				return "", errors.New("not found")
			}
			return val, nil
		},
		SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
			ttls = append(ttls, expiration)
			store[key] = string(value.([]byte))
			return nil
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			delete(store, key)
			return nil
		},
	}

	var delivered string
	email := &mocks.MockEmailService{
		SendVerificationCodeFunc: func(ctx context.Context, to, code string) error {
			delivered = code
			return nil
		},
	}
	service := NewService(cache, email, &mocks.MockSMSSender{}, config.VerificationConfig{
		EmailCodeTTL: 10 * time.Minute,
	}, newTestLogger())

	if err := service.SendCode(ctx, ports.VerificationChannelEmail, "ada@example.com"); err != nil {
		t.Fatalf("expected no error sending code, got %v", err)
	}

	// Pin the deadline close so the rewrite TTL is clearly shorter
	// than the configured one.
	key := cacheKey(ports.VerificationChannelEmail, "ada@example.com")
	seeded, _ := json.Marshal(codeEntry{Code: delivered, ExpiresAt: time.Now().Add(90 * time.Second)})
	store[key] = string(seeded)

	// Act
	wrong := "000000"
	if wrong == delivered {
		wrong = "000001"
	}
	err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", wrong)

	// Assert
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) || !strings.Contains(valErr.Message, "attempts remaining") {
		t.Fatalf("expected an invalid-code error, got %v", err)
	}
	if len(ttls) != 2 {
		t.Fatalf("expected the issue and the counter rewrite, got %d sets", len(ttls))
	}
	if ttls[1] > 90*time.Second {
		t.Errorf("expected the rewrite to keep the remaining lifetime, got %v", ttls[1])
	}
	if ttls[1] <= 0 {
		t.Errorf("expected a positive remaining lifetime, got %v", ttls[1])
	}

	// The right code still verifies within the original window.
	if err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "ada@example.com", delivered); err != nil {
		t.Fatalf("expected the code to verify, got %v", err)
	}
}

func TestVerifyCode_PastDeadlineReportsExpired(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()
	service := NewService(cache, &mocks.MockEmailService{}, &mocks.MockSMSSender{}, config.VerificationConfig{}, newTestLogger())

	entry, _ := json.Marshal(codeEntry{Code: "123456", ExpiresAt: time.Now().Add(-time.Second)})
	key := cacheKey(ports.VerificationChannelEmail, "late@example.com")
	cache.Set(ctx, key, entry, time.Minute)

	// Act
	err := service.VerifyCode(ctx, ports.VerificationChannelEmail, "late@example.com", "123456")

	// Assert
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) || !strings.Contains(valErr.Message, "expired or not found") {
		t.Fatalf("expected an expired error, got %v", err)
	}
}
