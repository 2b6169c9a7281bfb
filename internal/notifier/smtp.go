package notifier

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/models"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers email directly over SMTP.
type SMTPSender struct {
	cfg    config.SMTPConfig
	dialer mailDialer
}

// NewSMTPSender builds a sender for cfg. password usually comes from the
// keyring; cfg.Password, set from the environment, wins when present.
func NewSMTPSender(cfg config.SMTPConfig, password string) *SMTPSender {
	if cfg.Password != "" {
		password = cfg.Password
	}
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, password),
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Configured() bool {
	return s.cfg.Configured()
}

// Send dials the server for each message. gomail has no context support, so
// ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg models.EmailMessage) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject())
	m.SetBody("text/plain", msg.Body())
	return s.dialer.DialAndSend(m)
}
