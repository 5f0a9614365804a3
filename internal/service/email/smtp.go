package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSettings configures the SMTP transport. In development this
// points at Mailhog on port 1025 with no TLS and no credentials.
type SMTPSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// SMTPProvider delivers verification codes, welcome mails and
// withdrawal notices over plain SMTP.
type SMTPProvider struct {
	settings SMTPSettings
}

func NewSMTPProvider(settings SMTPSettings) *SMTPProvider {
	return &SMTPProvider{settings: settings}
}

// Send delivers one message.
func (p *SMTPProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	msg := p.message(to, subject, body, isHTML)
	addr := fmt.Sprintf("%s:%d", p.settings.Host, p.settings.Port)
	if p.settings.UseTLS {
		return p.deliverTLS(addr, to, msg)
	}
	return p.deliverPlain(addr, to, msg)
}

// message assembles the wire form. Headers are written in a fixed
// order so the output is stable across runs.
func (p *SMTPProvider) message(to, subject, body string, isHTML bool) string {
	contentType := "text/plain; charset=UTF-8"
	if isHTML {
		contentType = "text/html; charset=UTF-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", p.sender())
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}

func (p *SMTPProvider) deliverPlain(addr, to, message string) error {
	if err := smtp.SendMail(addr, p.auth(), p.settings.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (p *SMTPProvider) deliverTLS(addr, to, message string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: p.settings.Host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, p.settings.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if auth := p.auth(); auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(p.settings.FromEmail); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return client.Quit()
}

func (p *SMTPProvider) auth() smtp.Auth {
	if p.settings.Username == "" || p.settings.Password == "" {
		return nil
	}
	return smtp.PlainAuth("", p.settings.Username, p.settings.Password, p.settings.Host)
}

func (p *SMTPProvider) sender() string {
	if p.settings.FromName != "" {
		return fmt.Sprintf("%s <%s>", p.settings.FromName, p.settings.FromEmail)
	}
	return p.settings.FromEmail
}
