package mailer

import (
	"context"

	"quiz-admin/internal/config"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/logger"

	"go.uber.org/zap"
)

// LogMailer writes messages to the application log instead of sending them. Used in development.
type LogMailer struct{}

var _ domain.Mailer = LogMailer{}

func (LogMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	logger.Get().Info("Email (not sent, log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("category", msg.Category),
		zap.String("body", msg.Text))
	return nil
}

// New picks the transport named by cfg.Provider. Unknown providers and sendgrid without an API key fall back to logging.
func New(cfg config.EmailConfig, appName string) domain.Mailer {
	if cfg.Provider == "sendgrid" && cfg.SendgridAPIKey != "" {
		return NewSendgridMailer(cfg, appName)
	}
	if cfg.Provider == "sendgrid" {
		logger.Get().Warn("Sendgrid provider selected without API key, falling back to log mailer")
	}
	return LogMailer{}
}
