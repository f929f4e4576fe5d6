package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// blockRequestEmail builds the administrator notification. Only ids and the
// masked number are included.
func (s *Sender) blockRequestEmail(card *models.CardView) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AdminEmail}
	e.Subject = "Card Block Request"
	e.Text = []byte(fmt.Sprintf(
		"A card block has been requested and awaits confirmation.\n\n"+
			"Card: %s (%s)\n"+
			"Owner: %s\n"+
			"Requested at: %s\n"+
			"\nBank Cards Service",
		card.ID, card.MaskedNumber, card.OwnerID, time.Now().UTC().Format("2006-01-02 15:04:05"),
	))
	return e
}

// NotifyBlockRequested sends the block request notification to the administrator address.
func (s *Sender) NotifyBlockRequested(ctx context.Context, card *models.CardView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.blockRequestEmail(card)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send block request notification for card %s: %v", card.ID, err)
		return fmt.Errorf("failed to send block request notification: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AdminEmail, e.Subject)
	return nil
}
