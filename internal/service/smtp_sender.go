package service

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/config"
	"mailpipe/internal/model"
)

// SMTPSender delivers mail through an SMTP relay. The dial-and-send is not
// cancellable mid-flight; the context is accepted for interface symmetry.
type SMTPSender struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (s *SMTPSender) Send(_ context.Context, msg *model.EmailMessage) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddress, s.fromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	body := ""
	if msg.Body != nil {
		body = *msg.Body
	}
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return apperrors.Delivery(err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
