package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/metrics"
	"solarhub/internal/port"
	"solarhub/internal/workflow"
)

// ProjectService manages projects converted from approved applications.
type ProjectService interface {
	ConvertToProject(ctx context.Context, caller Caller, applicationID uuid.UUID) (*domain.Project, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int, error)
	AdvancePhase(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Project, error)
	SetPhase(ctx context.Context, id uuid.UUID, phase domain.ProjectPhase) (*domain.Project, error)
}

type projectService struct {
	projects     port.ProjectRepository
	applications port.ApplicationRepository
	log          *zap.Logger
}

// NewProjectService creates a new ProjectService implementation.
func NewProjectService(projects port.ProjectRepository, applications port.ApplicationRepository, log *zap.Logger) ProjectService {
	return &projectService{projects: projects, applications: applications, log: log}
}

func (s *projectService) ConvertToProject(ctx context.Context, caller Caller, applicationID uuid.UUID) (*domain.Project, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, app.OwnerID); err != nil {
		return nil, err
	}
	if !workflow.ProjectConvertible(app.Status) {
		return nil, domain.ErrNotConvertible
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		ProjectName:   app.ProjectName,
		Phase:         workflow.ProjectFlow.Initial(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("projectService.ConvertToProject: %w", err)
	}

	s.log.Info("projectService.ConvertToProject: project created",
		zap.String("project_id", project.ID.String()),
		zap.String("application_id", app.ID.String()))
	return project, nil
}

func (s *projectService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, project.OwnerID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *projectService) ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int, error) {
	return s.projects.ListAll(ctx, offset, limit)
}

func (s *projectService) AdvancePhase(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Project, error) {
	project, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	next, err := workflow.ProjectFlow.Advance(project.Phase)
	if err != nil {
		return nil, fmt.Errorf("projectService.AdvancePhase: %w", err)
	}
	if next == project.Phase {
		return project, nil
	}
	return s.updatePhase(ctx, id, next)
}

func (s *projectService) SetPhase(ctx context.Context, id uuid.UUID, phase domain.ProjectPhase) (*domain.Project, error) {
	if !workflow.ProjectFlow.Contains(phase) {
		return nil, domain.NewFieldError("phase", fmt.Sprintf("unknown phase %q", phase))
	}
	return s.updatePhase(ctx, id, phase)
}

func (s *projectService) updatePhase(ctx context.Context, id uuid.UUID, phase domain.ProjectPhase) (*domain.Project, error) {
	updated, err := s.projects.UpdatePhase(ctx, id, phase)
	if err != nil {
		return nil, fmt.Errorf("projectService.updatePhase: %w", err)
	}
	metrics.StatusTransitions.WithLabelValues(workflow.ProjectFlow.Name(), string(phase)).Inc()
	s.log.Info("projectService: phase updated",
		zap.String("project_id", id.String()),
		zap.String("phase", string(phase)))
	return updated, nil
}
