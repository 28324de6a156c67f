package port

import (
	"context"

	"github.com/google/uuid"

	"solarhub/internal/domain"
)

// ApplicationRepository defines the contract for application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	// ListByOwner returns the owner's applications, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Application, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Application, int, error)
	// Update writes only the non-nil fields of patch and returns the stored row.
	Update(ctx context.Context, id uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// ProjectRepository defines the contract for project persistence.
type ProjectRepository interface {
	// Create returns domain.ErrProjectExists when the application already has a project.
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int, error)
	UpdatePhase(ctx context.Context, id uuid.UUID, phase domain.ProjectPhase) (*domain.Project, error)
}
