package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/metrics"
	"solarhub/internal/port"
	"solarhub/internal/workflow"
)

// CreateApplicationInput is the DTO for application submission.
type CreateApplicationInput struct {
	OwnerID      uuid.UUID
	ProjectName  string
	FacilityType string
	Location     string
	Latitude     *float64
	Longitude    *float64
	SystemType   string
	LoadProfile  string
	Notes        string
	// Status is optional; when set it must be a catalog member.
	Status          string
	Files           domain.ApplicationFiles
	UploadSessionID string
}

// ApplicationService defines the application lifecycle contract.
type ApplicationService interface {
	Create(ctx context.Context, input CreateApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Application, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Application, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Application, int, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error)
	Advance(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Application, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) error
	Subscribe(ctx context.Context, ownerID uuid.UUID) (*Subscription, error)
}

type applicationService struct {
	repo    port.ApplicationRepository
	feed    port.ChangeFeed
	bus     *EventBus
	tracker *UploadTracker
	files   AttachmentStore
	log     *zap.Logger
	now     func() time.Time
}

// NewApplicationService creates a new ApplicationService implementation.
// files may be nil, in which case attachments are neither signed nor removed.
func NewApplicationService(
	repo port.ApplicationRepository,
	feed port.ChangeFeed,
	bus *EventBus,
	tracker *UploadTracker,
	files AttachmentStore,
	log *zap.Logger,
) ApplicationService {
	return &applicationService{
		repo:    repo,
		feed:    feed,
		bus:     bus,
		tracker: tracker,
		files:   files,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *applicationService) Create(ctx context.Context, input CreateApplicationInput) (*domain.Application, error) {
	app, err := s.buildApplication(input)
	if err != nil {
		return nil, err
	}
	if s.tracker.Pending(input.UploadSessionID) {
		return nil, domain.ErrUploadsPending
	}

	now := s.now()
	app.ID = uuid.New()
	app.CreatedAt = now
	app.UpdatedAt = now

	if err := s.repo.Create(ctx, app); err != nil {
		s.log.Error("applicationService.Create: persist failed", zap.Error(err))
		return nil, fmt.Errorf("applicationService.Create: %w", err)
	}
	metrics.ApplicationsCreated.Inc()

	s.log.Info("applicationService.Create: application created",
		zap.String("application_id", app.ID.String()),
		zap.String("owner_id", app.OwnerID.String()),
		zap.String("facility_type", string(app.FacilityType)))

	s.publish(ctx, app.OwnerID)
	s.bus.Publish(domain.ApplicationCreated{Application: *app, OccurredAt: now})
	return app, nil
}

func (s *applicationService) buildApplication(input CreateApplicationInput) (*domain.Application, error) {
	name := strings.TrimSpace(input.ProjectName)
	if name == "" {
		return nil, domain.NewFieldError("project_name", "is required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, domain.NewFieldError("owner_id", "is required")
	}

	status := workflow.ApplicationFlow.Initial()
	if input.Status != "" {
		status = domain.ApplicationStatus(input.Status)
		if !workflow.ApplicationFlow.Contains(status) {
			return nil, domain.NewFieldError("status", fmt.Sprintf("unknown status %q", input.Status))
		}
	}

	systemType, ok := domain.ParseSystemType(input.SystemType)
	if !ok {
		return nil, domain.NewFieldError("system_type", fmt.Sprintf("unknown system type %q", input.SystemType))
	}
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	return &domain.Application{
		OwnerID:      input.OwnerID,
		ProjectName:  name,
		FacilityType: domain.ParseFacilityType(input.FacilityType),
		Location:     strings.TrimSpace(input.Location),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		SystemType:   systemType,
		LoadProfile:  strings.TrimSpace(input.LoadProfile),
		Notes:        input.Notes,
		Status:       status,
		Files:        input.Files,
	}, nil
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return domain.NewFieldError("latitude", "must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return domain.NewFieldError("longitude", "must be between -180 and 180")
	}
	return nil
}

func (s *applicationService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, app.OwnerID); err != nil {
		return nil, err
	}
	if s.files != nil {
		app.Files = s.files.SignFiles(ctx, app.Files)
	}
	return app, nil
}

func (s *applicationService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Application, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *applicationService) ListAll(ctx context.Context, offset, limit int) ([]domain.Application, int, error) {
	return s.repo.ListAll(ctx, offset, limit)
}

func (s *applicationService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, domain.NewFieldError("body", "no fields to update")
	}
	if err := normalizePatch(patch); err != nil {
		return nil, err
	}
	if patch.Status != nil && !caller.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, current.OwnerID); err != nil {
		return nil, err
	}

	patch.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("applicationService.Update: %w", err)
	}
	if patch.Status != nil && *patch.Status != current.Status {
		metrics.StatusTransitions.WithLabelValues(workflow.ApplicationFlow.Name(), string(*patch.Status)).Inc()
	}

	s.publish(ctx, updated.OwnerID)
	return updated, nil
}

// normalizePatch validates patch fields and rewrites them to canonical values.
func normalizePatch(p *domain.ApplicationPatch) error {
	if p.ProjectName != nil {
		name := strings.TrimSpace(*p.ProjectName)
		if name == "" {
			return domain.NewFieldError("project_name", "must not be empty")
		}
		p.ProjectName = &name
	}
	if p.Status != nil && !workflow.ApplicationFlow.Contains(*p.Status) {
		return domain.NewFieldError("status", fmt.Sprintf("unknown status %q", *p.Status))
	}
	if p.SystemType != nil {
		st, ok := domain.ParseSystemType(string(*p.SystemType))
		if !ok {
			return domain.NewFieldError("system_type", fmt.Sprintf("unknown system type %q", *p.SystemType))
		}
		p.SystemType = &st
	}
	if p.FacilityType != nil {
		ft := domain.ParseFacilityType(string(*p.FacilityType))
		p.FacilityType = &ft
	}
	return validateCoordinates(p.Latitude, p.Longitude)
}

func (s *applicationService) Advance(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Application, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, current.OwnerID); err != nil {
		return nil, err
	}

	next, err := workflow.ApplicationFlow.Advance(current.Status)
	if err != nil {
		s.log.Error("applicationService.Advance: stored status outside catalog",
			zap.String("application_id", id.String()),
			zap.String("status", string(current.Status)))
		return nil, fmt.Errorf("applicationService.Advance: %w", err)
	}
	if next == current.Status {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, &domain.ApplicationPatch{Status: &next, UpdatedAt: s.now()})
	if err != nil {
		return nil, fmt.Errorf("applicationService.Advance: %w", err)
	}
	metrics.StatusTransitions.WithLabelValues(workflow.ApplicationFlow.Name(), string(next)).Inc()

	s.log.Info("applicationService.Advance: status advanced",
		zap.String("application_id", id.String()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)))

	s.publish(ctx, updated.OwnerID)
	return updated, nil
}

func (s *applicationService) SetStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	if !workflow.ApplicationFlow.Contains(status) {
		return nil, domain.NewFieldError("status", fmt.Sprintf("unknown status %q", status))
	}

	updated, err := s.repo.Update(ctx, id, &domain.ApplicationPatch{Status: &status, UpdatedAt: s.now()})
	if err != nil {
		return nil, fmt.Errorf("applicationService.SetStatus: %w", err)
	}
	metrics.StatusTransitions.WithLabelValues(workflow.ApplicationFlow.Name(), string(status)).Inc()

	s.publish(ctx, updated.OwnerID)
	return updated, nil
}

func (s *applicationService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(caller, current.OwnerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("applicationService.Delete: %w", err)
	}

	s.log.Info("applicationService.Delete: application deleted", zap.String("application_id", id.String()))
	s.publish(ctx, current.OwnerID)
	if s.files != nil {
		s.files.DeleteFiles(ctx, current.Files)
	}
	return nil
}

// publish signals subscribers of ownerID. A feed failure only delays live
// updates, so it is logged rather than returned.
func (s *applicationService) publish(ctx context.Context, ownerID uuid.UUID) {
	if err := s.feed.Publish(ctx, ownerID); err != nil {
		s.log.Warn("applicationService: change feed publish failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}
}
