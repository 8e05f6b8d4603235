package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/woodkari/woodkari-backend/pkg/config"
)

// Sender delivers transactional mail.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// New constructs an SMTP mailer from configuration.
func New(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.FromEmail == "" {
		return nil, fmt.Errorf("smtp host and from email are required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers a single HTML email.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.FromEmail,
		to,
		subject,
		htmlBody,
	)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
