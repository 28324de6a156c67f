package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/service"
	"solarhub/mocks"
)

func setupProjectService() (service.ProjectService, *mocks.MockProjectRepo, *mocks.MockApplicationRepo) {
	projects := new(mocks.MockProjectRepo)
	apps := new(mocks.MockApplicationRepo)
	return service.NewProjectService(projects, apps, zap.NewNop()), projects, apps
}

func TestProjectService_ConvertToProject(t *testing.T) {
	svc, projects, apps := setupProjectService()
	owner := uuid.New()
	app := sampleApplication(owner, domain.StatusApproved)

	apps.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

	p, err := svc.ConvertToProject(context.Background(), ownerCaller(owner), app.ID)

	require.NoError(t, err)
	assert.Equal(t, app.ID, p.ApplicationID)
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, app.ProjectName, p.ProjectName)
	assert.Equal(t, domain.PhaseSubmitted, p.Phase)
	projects.AssertExpectations(t)
}

func TestProjectService_ConvertToProject_Gated(t *testing.T) {
	for _, status := range []domain.ApplicationStatus{domain.StatusPending, domain.StatusUnderReview, domain.StatusMatched} {
		t.Run(string(status), func(t *testing.T) {
			svc, projects, apps := setupProjectService()
			app := sampleApplication(uuid.New(), status)
			apps.On("GetByID", mock.Anything, app.ID).Return(app, nil)

			_, err := svc.ConvertToProject(context.Background(), adminCaller, app.ID)

			assert.ErrorIs(t, err, domain.ErrNotConvertible)
			projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProjectService_ConvertToProject_AlreadyExists(t *testing.T) {
	svc, projects, apps := setupProjectService()
	app := sampleApplication(uuid.New(), domain.StatusInExecution)
	apps.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	projects.On("Create", mock.Anything, mock.Anything).Return(domain.ErrProjectExists)

	_, err := svc.ConvertToProject(context.Background(), adminCaller, app.ID)

	assert.ErrorIs(t, err, domain.ErrProjectExists)
}

func TestProjectService_ConvertToProject_Forbidden(t *testing.T) {
	svc, projects, apps := setupProjectService()
	app := sampleApplication(uuid.New(), domain.StatusApproved)
	apps.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	_, err := svc.ConvertToProject(context.Background(), ownerCaller(uuid.New()), app.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_AdvancePhase(t *testing.T) {
	svc, projects, _ := setupProjectService()
	owner := uuid.New()
	p := &domain.Project{ID: uuid.New(), OwnerID: owner, Phase: domain.PhaseFinancing}
	next := *p
	next.Phase = domain.PhaseContractSigned

	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	projects.On("UpdatePhase", mock.Anything, p.ID, domain.PhaseContractSigned).Return(&next, nil)

	got, err := svc.AdvancePhase(context.Background(), ownerCaller(owner), p.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseContractSigned, got.Phase)
}

func TestProjectService_AdvancePhase_TerminalIsNoop(t *testing.T) {
	svc, projects, _ := setupProjectService()
	p := &domain.Project{ID: uuid.New(), OwnerID: uuid.New(), Phase: domain.PhaseCompleted}
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	got, err := svc.AdvancePhase(context.Background(), adminCaller, p.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, got.Phase)
	projects.AssertNotCalled(t, "UpdatePhase", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_SetPhase(t *testing.T) {
	svc, projects, _ := setupProjectService()
	id := uuid.New()

	_, err := svc.SetPhase(context.Background(), id, "Demolition")
	assert.ErrorIs(t, err, domain.ErrValidation)

	projects.On("UpdatePhase", mock.Anything, id, domain.PhaseTesting).
		Return(&domain.Project{ID: id, Phase: domain.PhaseTesting}, nil)
	got, err := svc.SetPhase(context.Background(), id, domain.PhaseTesting)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTesting, got.Phase)
}

func TestProjectService_Get_NotFound(t *testing.T) {
	svc, projects, _ := setupProjectService()
	id := uuid.New()
	projects.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.Get(context.Background(), adminCaller, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
