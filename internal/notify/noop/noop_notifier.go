package noop

import (
	"context"

	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/port"
)

type noopNotifier struct {
	log *zap.Logger
}

// NewNoopNotifier creates a Notifier that only logs, for local development.
func NewNoopNotifier(log *zap.Logger) port.Notifier {
	return &noopNotifier{log: log}
}

func (n *noopNotifier) NotifyNewApplication(_ context.Context, app *domain.Application) (*port.NotifyResult, error) {
	n.log.Info("noopNotifier: new application",
		zap.String("application_id", app.ID.String()),
		zap.String("project_name", app.ProjectName),
	)
	return &port.NotifyResult{Success: true}, nil
}
