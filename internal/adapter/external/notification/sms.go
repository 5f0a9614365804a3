package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/infrastructure/circuitbreaker"
)

const termiiSendURL = "https://api.ng.termii.com/api/sms/send"

// SMSAdapter sends SMS messages via the Termii REST API. Outbound
// calls go through a circuit breaker so a flapping provider cannot
// stall signup and verification flows.
type SMSAdapter struct {
	apiKey   string
	senderID string
	client   *circuitbreaker.HTTPClient
	log      *zap.Logger
}

// NewSMSAdapter creates a new Termii SMS adapter
func NewSMSAdapter(apiKey, senderID string, log *zap.Logger) *SMSAdapter {
	return &SMSAdapter{
		apiKey:   apiKey,
		senderID: senderID,
		client:   circuitbreaker.NewHTTPClient(circuitbreaker.Config{Name: "termii"}, 15*time.Second, log),
		log:      log,
	}
}

// SendSMS sends a single SMS message
func (a *SMSAdapter) SendSMS(ctx context.Context, to, message string) error {
	if a.apiKey == "" {
		a.log.Warn("SMS adapter not configured, skipping send", zap.String("to", to))
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"from":    a.senderID,
		"sms":     message,
		"type":    "plain",
		"channel": "generic",
		"api_key": a.apiKey,
	})
	if err != nil {
		return fmt.Errorf("sms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, termiiSendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sms: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Error("Failed to send SMS", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("sms: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var termiiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&termiiErr)
		a.log.Error("Termii API error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", termiiErr.Message),
		)
		return fmt.Errorf("sms: termii error %d: %s", resp.StatusCode, termiiErr.Message)
	}

	a.log.Info("SMS sent", zap.String("to", to))
	return nil
}
