package noop

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/email"
	"solarhub/internal/port"
)

type noopSender struct {
	frontendURL string
	log         *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs the rendered message instead of sending it.
func NewNoopSender(frontendURL string, log *zap.Logger) port.EmailSender {
	return &noopSender{frontendURL: frontendURL, log: log}
}

func (s *noopSender) SendNewApplicationEmail(_ context.Context, recipients []string, app *domain.Application) error {
	msg := email.NewApplicationMessage(app, s.frontendURL)
	s.log.Info("noopSender: new application email",
		zap.String("to", strings.Join(recipients, ",")),
		zap.String("subject", msg.Subject),
		zap.String("application_id", app.ID.String()),
	)
	return nil
}
