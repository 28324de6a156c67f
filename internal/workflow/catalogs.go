package workflow

import "solarhub/internal/domain"

// ApplicationFlow is the client application lifecycle.
var ApplicationFlow = NewCatalog("application status",
	domain.StatusPending,
	domain.StatusUnderReview,
	domain.StatusMatched,
	domain.StatusApproved,
	domain.StatusInExecution,
	domain.StatusCompleted,
)

// ProjectFlow is the post-approval project lifecycle.
var ProjectFlow = NewCatalog("project phase",
	domain.PhaseSubmitted,
	domain.PhaseReviewed,
	domain.PhaseMatched,
	domain.PhaseFinancing,
	domain.PhaseContractSigned,
	domain.PhaseInstallation,
	domain.PhaseTesting,
	domain.PhaseCompleted,
)

// MatchingVisible reports whether installer matches may be shown to the owner.
func MatchingVisible(status domain.ApplicationStatus) bool {
	return status == domain.StatusMatched
}

// ProjectConvertible reports whether an application may be turned into a project.
func ProjectConvertible(status domain.ApplicationStatus) bool {
	return ApplicationFlow.AtOrAfter(status, domain.StatusApproved)
}

// Actions lists the owner-facing actions available at status.
type Actions struct {
	ViewMatching   bool `json:"view_matching"`
	Advance        bool `json:"advance"`
	ConvertProject bool `json:"convert_project"`
}

// ActionsFor derives the gated actions for status.
func ActionsFor(status domain.ApplicationStatus) Actions {
	return Actions{
		ViewMatching:   MatchingVisible(status),
		Advance:        ApplicationFlow.Contains(status) && !ApplicationFlow.IsTerminal(status),
		ConvertProject: ProjectConvertible(status),
	}
}
