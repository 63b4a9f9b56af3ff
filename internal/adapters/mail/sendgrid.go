// Package mail delivers transactional emails through SendGrid, or to the log
// when no API key is configured.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type SendGridMailer struct {
	client     sendClient
	senderName string
	sender     string
	logger     *zap.Logger
}

func NewSendGridMailer(apiKey, senderName, sender string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		senderName: senderName,
		sender:     sender,
		logger:     logger,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg ports.Email) error {
	message := m.buildMessage(msg)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email with status %d: %s", response.StatusCode, response.Body)
	}

	m.logger.Debug("email sent",
		zap.String("subject", msg.Subject),
		zap.Int("status", response.StatusCode))
	return nil
}

func (m *SendGridMailer) buildMessage(msg ports.Email) *sgmail.SGMailV3 {
	from := sgmail.NewEmail(m.senderName, m.sender)
	to := sgmail.NewEmail(msg.ToName, msg.To)
	return sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
}

// LogMailer writes outgoing mail to the logger. Used in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.logger.Info("email not delivered, no mail provider configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	// body carries live tokens
	m.logger.Debug("undelivered email body", zap.String("to", msg.To), zap.String("body", msg.Text))
	return nil
}

// New picks SendGrid when apiKey is set and the log mailer otherwise.
func New(apiKey, senderName, sender string, logger *zap.Logger) ports.Mailer {
	if apiKey == "" {
		return NewLogMailer(logger)
	}
	return NewSendGridMailer(apiKey, senderName, sender, logger)
}
