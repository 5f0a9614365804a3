package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// Base URL for links in emails
	BaseURL string

	// AdminEmail receives withdrawal request notices
	AdminEmail string
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@viprus.com",
		FromName:   "Paradox",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service implements the EmailService interface
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(SMTPSettings{
			Host:      config.SMTPHost,
			Port:      config.SMTPPort,
			Username:  config.SMTPUsername,
			Password:  config.SMTPPassword,
			FromEmail: config.FromEmail,
			FromName:  config.FromName,
			UseTLS:    config.SMTPUseTLS,
		})
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	s.loadTemplates()

	return s, nil
}

func (s *Service) loadTemplates() {
	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))
	s.templates["verification_code"] = template.Must(template.New("verification_code").Parse(verificationCodeTemplate))
	s.templates["withdrawal_request"] = template.Must(template.New("withdrawal_request").Parse(withdrawalRequestTemplate))
	s.templates["referral_credited"] = template.Must(template.New("referral_credited").Parse(referralCreditedTemplate))
}

// Send sends a generic email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return &domain.NotificationError{Channel: "email", Err: err}
	}

	return nil
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return &domain.NotificationError{Channel: "email", Err: err}
	}

	return nil
}

// SendTemplate sends an email using a template
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notification from Paradox"
	}

	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendVerificationCode delivers an email one-time code.
func (s *Service) SendVerificationCode(ctx context.Context, to, code string) error {
	data := map[string]interface{}{
		"Subject": "Your verification code",
		"Code":    code,
	}
	return s.SendTemplate(ctx, to, "verification_code", data)
}

// SendWelcome sends a welcome email to a new user
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":      "Welcome to Paradox!",
		"UserName":     user.FullName,
		"Plan":         string(user.Plan),
		"ReferralCode": user.ReferralCode,
	}
	return s.SendTemplate(ctx, user.Email, "welcome", data)
}

// SendWithdrawalRequest notifies the back office of an accepted
// withdrawal request.
func (s *Service) SendWithdrawalRequest(ctx context.Context, user *domain.User, req *domain.WithdrawalRequest) error {
	data := map[string]interface{}{
		"Subject":       fmt.Sprintf("Withdrawal request from %s", user.FullName),
		"UserName":      user.FullName,
		"UserEmail":     user.Email,
		"UserPhone":     user.Phone,
		"Amount":        fmt.Sprintf("%.2f", req.Amount),
		"Type":          string(req.WithdrawalType),
		"AccountName":   req.AccountName,
		"AccountNumber": req.AccountNumber,
		"BankName":      req.BankName,
		"RequestDate":   req.RequestDate.Format("2006-01-02 15:04:05"),
		"Deadline":      req.ProcessingDeadline.Format("2006-01-02 15:04:05"),
	}
	to := s.config.AdminEmail
	if to == "" {
		to = s.config.FromEmail
	}
	return s.SendTemplate(ctx, to, "withdrawal_request", data)
}

// SendReferralCredited tells a referrer their commission landed.
func (s *Service) SendReferralCredited(ctx context.Context, user *domain.User, commission float64) error {
	data := map[string]interface{}{
		"Subject":    "Referral commission credited",
		"UserName":   user.FullName,
		"Commission": fmt.Sprintf("%.2f", commission),
	}
	return s.SendTemplate(ctx, user.Email, "referral_credited", data)
}
