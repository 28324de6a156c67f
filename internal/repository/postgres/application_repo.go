package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"solarhub/internal/domain"
	"solarhub/internal/port"
)

const applicationColumns = `id, owner_id, project_name, facility_type, location, latitude, longitude,
	system_type, load_profile, notes, status, files, created_at, updated_at`

type applicationRepo struct {
	db *sqlx.DB
}

// NewApplicationRepo creates a new PostgreSQL-backed ApplicationRepository.
func NewApplicationRepo(db *sqlx.DB) port.ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}

	query := `INSERT INTO applications
		(id, owner_id, project_name, facility_type, location, latitude, longitude,
		 system_type, load_profile, notes, status, files, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.OwnerID, app.ProjectName, app.FacilityType, app.Location,
		app.Latitude, app.Longitude, app.SystemType, app.LoadProfile, app.Notes,
		app.Status, app.Files, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return transient("applicationRepo.Create", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app,
		"SELECT "+applicationColumns+" FROM applications WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transient("applicationRepo.GetByID", err)
	}
	return &app, nil
}

func (r *applicationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Application, error) {
	apps := []domain.Application{}
	err := r.db.SelectContext(ctx, &apps,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, transient("applicationRepo.ListByOwner", err)
	}
	return apps, nil
}

func (r *applicationRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Application, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM applications"); err != nil {
		return nil, 0, transient("applicationRepo.ListAll count", err)
	}

	apps := []domain.Application{}
	err := r.db.SelectContext(ctx, &apps,
		`SELECT `+applicationColumns+` FROM applications
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, transient("applicationRepo.ListAll", err)
	}
	return apps, total, nil
}

// Update builds a SET clause from the non-nil patch fields so that
// concurrent writers touching different fields do not clobber each other.
func (r *applicationRepo) Update(ctx context.Context, id uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error) {
	sets := make([]string, 0, 11)
	args := make([]interface{}, 0, 12)
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.ProjectName != nil {
		add("project_name", *patch.ProjectName)
	}
	if patch.FacilityType != nil {
		add("facility_type", *patch.FacilityType)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.SystemType != nil {
		add("system_type", *patch.SystemType)
	}
	if patch.LoadProfile != nil {
		add("load_profile", *patch.LoadProfile)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Files != nil {
		add("files", *patch.Files)
	}
	add("updated_at", patch.UpdatedAt)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE applications SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), applicationColumns)

	var app domain.Application
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&app); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transient("applicationRepo.Update", err)
	}
	return &app, nil
}

func (r *applicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM applications WHERE id = $1", id)
	if err != nil {
		return transient("applicationRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return transient("applicationRepo.Ping", err)
	}
	return nil
}
