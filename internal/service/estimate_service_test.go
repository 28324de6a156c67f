package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/offer"
	"solarhub/internal/savings"
	"solarhub/internal/service"
	"solarhub/internal/tariff"
	"solarhub/mocks"
)

func setupEstimateService() (service.EstimateService, *mocks.MockApplicationRepo) {
	repo := new(mocks.MockApplicationRepo)
	svc := service.NewEstimateService(repo, savings.NewProjector(tariff.NewModel()), offer.NewGenerator(nil))
	return svc, repo
}

func TestEstimateService_EstimateSavings(t *testing.T) {
	svc, _ := setupEstimateService()

	p := svc.EstimateSavings(service.EstimateInput{LoadProfile: "1,500", FacilityType: "Commercial", Years: 10})

	require.True(t, p.Available)
	assert.Equal(t, 10, p.HorizonYears)
	assert.Greater(t, p.TotalSavings, p.AnnualSavings)

	none := svc.EstimateSavings(service.EstimateInput{LoadProfile: "unknown", FacilityType: "Commercial"})
	assert.False(t, none.Available)
}

func TestEstimateService_EstimateOffers(t *testing.T) {
	svc, _ := setupEstimateService()

	q, err := svc.EstimateOffers(service.EstimateInput{LoadProfile: "1500", FacilityType: "commercial", SystemType: "on-grid"})
	require.NoError(t, err)
	assert.Equal(t, 12, q.RequiredKw)
	assert.Len(t, q.Offers, 3)

	_, err = svc.EstimateOffers(service.EstimateInput{LoadProfile: "1500", SystemType: "tidal"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEstimateService_ApplicationOffers_GatedForOwner(t *testing.T) {
	svc, repo := setupEstimateService()
	owner := uuid.New()
	app := sampleApplication(owner, domain.StatusUnderReview)
	repo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	_, err := svc.ApplicationOffers(context.Background(), ownerCaller(owner), app.ID)
	assert.ErrorIs(t, err, domain.ErrMatchingUnavailable)

	q, err := svc.ApplicationOffers(context.Background(), adminCaller, app.ID)
	require.NoError(t, err)
	assert.Len(t, q.Offers, 3)
}

func TestEstimateService_ApplicationOffers_VisibleAtMatched(t *testing.T) {
	svc, repo := setupEstimateService()
	owner := uuid.New()
	app := sampleApplication(owner, domain.StatusMatched)
	repo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	q, err := svc.ApplicationOffers(context.Background(), ownerCaller(owner), app.ID)

	require.NoError(t, err)
	assert.Equal(t, 1500.0, q.MonthlyKwh)
	assert.Equal(t, "SunPeak Energy", q.Offers[0].Name)
}

func TestEstimateService_ApplicationSavings(t *testing.T) {
	svc, repo := setupEstimateService()
	owner := uuid.New()
	app := sampleApplication(owner, domain.StatusPending)
	repo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	p, err := svc.ApplicationSavings(context.Background(), ownerCaller(owner), app.ID, 99)
	require.NoError(t, err)
	assert.True(t, p.Available)
	assert.Equal(t, savings.MaxYears, p.HorizonYears)

	_, err = svc.ApplicationSavings(context.Background(), ownerCaller(uuid.New()), app.ID, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
