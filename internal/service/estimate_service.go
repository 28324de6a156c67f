package service

import (
	"context"

	"github.com/google/uuid"

	"solarhub/internal/domain"
	"solarhub/internal/offer"
	"solarhub/internal/port"
	"solarhub/internal/savings"
	"solarhub/internal/workflow"
)

// EstimateInput describes a facility for the stateless calculators.
type EstimateInput struct {
	LoadProfile  string
	FacilityType string
	SystemType   string
	Years        int
}

// EstimateService computes savings projections and installer offers.
type EstimateService interface {
	EstimateSavings(input EstimateInput) savings.Projection
	EstimateOffers(input EstimateInput) (offer.Quote, error)
	ApplicationSavings(ctx context.Context, caller Caller, id uuid.UUID, years int) (*savings.Projection, error)
	ApplicationOffers(ctx context.Context, caller Caller, id uuid.UUID) (*offer.Quote, error)
}

type estimateService struct {
	repo      port.ApplicationRepository
	projector *savings.Projector
	offers    *offer.Generator
}

// NewEstimateService creates a new EstimateService implementation.
func NewEstimateService(repo port.ApplicationRepository, projector *savings.Projector, offers *offer.Generator) EstimateService {
	return &estimateService{repo: repo, projector: projector, offers: offers}
}

func (s *estimateService) EstimateSavings(input EstimateInput) savings.Projection {
	return s.projector.Project(
		offer.ParseLoadProfile(input.LoadProfile),
		domain.ParseFacilityType(input.FacilityType),
		input.Years,
	)
}

func (s *estimateService) EstimateOffers(input EstimateInput) (offer.Quote, error) {
	systemType, ok := domain.ParseSystemType(input.SystemType)
	if !ok {
		return offer.Quote{}, domain.NewFieldError("system_type", "unknown system type")
	}
	return s.offers.Generate(offer.Request{
		MonthlyKwh:   offer.ParseLoadProfile(input.LoadProfile),
		FacilityType: domain.ParseFacilityType(input.FacilityType),
		SystemType:   systemType,
	}), nil
}

func (s *estimateService) ApplicationSavings(ctx context.Context, caller Caller, id uuid.UUID, years int) (*savings.Projection, error) {
	app, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	p := s.projector.Project(offer.ParseLoadProfile(app.LoadProfile), app.FacilityType, years)
	return &p, nil
}

// ApplicationOffers returns installer offers for an application. Owners see
// them only while the application is at the matching stage.
func (s *estimateService) ApplicationOffers(ctx context.Context, caller Caller, id uuid.UUID) (*offer.Quote, error) {
	app, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.IsStaff() && !workflow.MatchingVisible(app.Status) {
		return nil, domain.ErrMatchingUnavailable
	}
	q := s.offers.Generate(offer.Request{
		MonthlyKwh:   offer.ParseLoadProfile(app.LoadProfile),
		FacilityType: app.FacilityType,
		SystemType:   app.SystemType,
	})
	return &q, nil
}

func (s *estimateService) load(ctx context.Context, caller Caller, id uuid.UUID) (*domain.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, app.OwnerID); err != nil {
		return nil, err
	}
	return app, nil
}
