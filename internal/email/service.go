package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/projectred/donor-api/config"
)

// Service sends the transactional mail the platform produces. Everything
// here is best effort; callers log failures and move on.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendDonationThanks(ctx context.Context, to, name string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to the donor network. Keep your location up to date so we can reach you when blood is needed nearby.\n",
		name)
	return s.send(to, "Welcome to the donor network", body)
}

func (s *smtpService) SendDonationThanks(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your donation. Your blood test results will appear in the app once the hospital submits them.\n",
		name)
	return s.send(to, "Thank you for donating", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body)
}
