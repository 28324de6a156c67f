package port

import (
	"context"

	"solarhub/internal/domain"
)

// EmailSender defines the contract for the relay's outbound email.
type EmailSender interface {
	SendNewApplicationEmail(ctx context.Context, recipients []string, app *domain.Application) error
}
