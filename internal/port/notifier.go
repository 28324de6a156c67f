package port

import (
	"context"

	"solarhub/internal/domain"
)

// NotifyResult is the relay's reply to a notification.
type NotifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Notifier delivers new-application notifications to administrators.
type Notifier interface {
	NotifyNewApplication(ctx context.Context, app *domain.Application) (*NotifyResult, error)
}
