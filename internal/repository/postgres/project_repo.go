package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"solarhub/internal/domain"
	"solarhub/internal/port"
)

const projectColumns = "id, application_id, owner_id, project_name, phase, created_at, updated_at"

type projectRepo struct {
	db *sqlx.DB
}

// NewProjectRepo creates a new PostgreSQL-backed ProjectRepository.
func NewProjectRepo(db *sqlx.DB) port.ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, application_id, owner_id, project_name, phase, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ApplicationID, p.OwnerID, p.ProjectName, p.Phase, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProjectExists
		}
		return transient("projectRepo.Create", err)
	}
	return nil
}

func (r *projectRepo) get(ctx context.Context, op, where string, arg interface{}) (*domain.Project, error) {
	var p domain.Project
	err := r.db.GetContext(ctx, &p, "SELECT "+projectColumns+" FROM projects WHERE "+where+" = $1", arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transient(op, err)
	}
	return &p, nil
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return r.get(ctx, "projectRepo.GetByID", "id", id)
}

func (r *projectRepo) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.Project, error) {
	return r.get(ctx, "projectRepo.GetByApplicationID", "application_id", applicationID)
}

func (r *projectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := r.db.SelectContext(ctx, &projects,
		"SELECT "+projectColumns+" FROM projects WHERE owner_id = $1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, transient("projectRepo.ListByOwner", err)
	}
	return projects, nil
}

func (r *projectRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM projects"); err != nil {
		return nil, 0, transient("projectRepo.ListAll count", err)
	}

	projects := []domain.Project{}
	err := r.db.SelectContext(ctx, &projects,
		"SELECT "+projectColumns+" FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, transient("projectRepo.ListAll", err)
	}
	return projects, total, nil
}

func (r *projectRepo) UpdatePhase(ctx context.Context, id uuid.UUID, phase domain.ProjectPhase) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowxContext(ctx,
		"UPDATE projects SET phase = $1, updated_at = NOW() WHERE id = $2 RETURNING "+projectColumns,
		phase, id).StructScan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transient("projectRepo.UpdatePhase", err)
	}
	return &p, nil
}
