package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/workflow"
)

func TestApplicationFlow_Advance(t *testing.T) {
	tests := []struct {
		from domain.ApplicationStatus
		want domain.ApplicationStatus
	}{
		{domain.StatusPending, domain.StatusUnderReview},
		{domain.StatusUnderReview, domain.StatusMatched},
		{domain.StatusMatched, domain.StatusApproved},
		{domain.StatusApproved, domain.StatusInExecution},
		{domain.StatusInExecution, domain.StatusCompleted},
		{domain.StatusCompleted, domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, err := workflow.ApplicationFlow.Advance(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplicationFlow_AdvanceTerminalIsIdempotent(t *testing.T) {
	s := domain.StatusCompleted
	for i := 0; i < 3; i++ {
		next, err := workflow.ApplicationFlow.Advance(s)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, next)
		s = next
	}
}

func TestApplicationFlow_UnknownStage(t *testing.T) {
	_, err := workflow.ApplicationFlow.IndexOf("Archived")
	assert.ErrorIs(t, err, workflow.ErrStageNotFound)

	_, err = workflow.ApplicationFlow.Advance("Archived")
	assert.ErrorIs(t, err, workflow.ErrStageNotFound)

	_, err = workflow.ApplicationFlow.ProgressFraction("Archived")
	assert.ErrorIs(t, err, workflow.ErrStageNotFound)
}

func TestApplicationFlow_ProgressFraction(t *testing.T) {
	frac, err := workflow.ApplicationFlow.ProgressFraction(domain.StatusMatched)
	require.NoError(t, err)
	assert.Equal(t, 0.5, frac)

	first, err := workflow.ApplicationFlow.ProgressFraction(domain.StatusPending)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6.0, first, 1e-12)

	last, err := workflow.ApplicationFlow.ProgressFraction(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1.0, last)
}

func TestProgressFraction_MonotonicAlongCatalog(t *testing.T) {
	prev := 0.0
	for _, s := range workflow.ApplicationFlow.Stages() {
		frac, err := workflow.ApplicationFlow.ProgressFraction(s)
		require.NoError(t, err)
		assert.Greater(t, frac, 0.0)
		assert.GreaterOrEqual(t, frac, prev)
		prev = frac
	}
	assert.Equal(t, 1.0, prev)

	prev = 0.0
	for _, p := range workflow.ProjectFlow.Stages() {
		frac, err := workflow.ProjectFlow.ProgressFraction(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, frac, prev)
		prev = frac
	}
	assert.Equal(t, 1.0, prev)
}

func TestProjectFlow_IsSeparateCatalog(t *testing.T) {
	assert.Equal(t, 6, workflow.ApplicationFlow.Len())
	assert.Equal(t, 8, workflow.ProjectFlow.Len())
	assert.Equal(t, domain.PhaseSubmitted, workflow.ProjectFlow.Initial())
	assert.Equal(t, domain.PhaseCompleted, workflow.ProjectFlow.Terminal())

	next, err := workflow.ProjectFlow.Advance(domain.PhaseFinancing)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseContractSigned, next)

	// "Under Review" is an application status only.
	assert.False(t, workflow.ProjectFlow.Contains(domain.ProjectPhase(domain.StatusUnderReview)))
}

func TestProgressOf(t *testing.T) {
	p, err := workflow.ApplicationFlow.ProgressOf(domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "Approved", p.Stage)
	assert.Equal(t, 3, p.Index)
	assert.Equal(t, 6, p.Total)
	assert.Equal(t, 67, p.Percent)
	assert.False(t, p.Terminal)

	p, err = workflow.ApplicationFlow.ProgressOf(domain.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, p.Terminal)
	assert.Equal(t, 100, p.Percent)
}

func TestNewCatalog_PanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		workflow.NewCatalog("dup", "a", "b", "a")
	})
	assert.Panics(t, func() {
		workflow.NewCatalog[string]("empty")
	})
}

func TestActionsFor(t *testing.T) {
	a := workflow.ActionsFor(domain.StatusMatched)
	assert.True(t, a.ViewMatching)
	assert.True(t, a.Advance)
	assert.False(t, a.ConvertProject)

	a = workflow.ActionsFor(domain.StatusPending)
	assert.False(t, a.ViewMatching)

	a = workflow.ActionsFor(domain.StatusInExecution)
	assert.False(t, a.ViewMatching)
	assert.True(t, a.ConvertProject)

	a = workflow.ActionsFor(domain.StatusCompleted)
	assert.False(t, a.Advance)
	assert.True(t, a.ConvertProject)
}
