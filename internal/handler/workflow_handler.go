package handler

import (
	"github.com/gin-gonic/gin"

	"solarhub/internal/workflow"
)

// WorkflowHandler exposes the lifecycle catalogs.
type WorkflowHandler struct{}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler() *WorkflowHandler {
	return &WorkflowHandler{}
}

// Statuses handles GET /api/v1/workflow/statuses
// @Summary Application status catalog
// @Tags workflow
// @Produce json
// @Success 200 {object} Response{data=CatalogResponse} "Catalog"
// @Router /workflow/statuses [get]
func (h *WorkflowHandler) Statuses(c *gin.Context) {
	RespondOK(c, catalogResponse(workflow.ApplicationFlow))
}

// Phases handles GET /api/v1/workflow/phases
// @Summary Project phase catalog
// @Tags workflow
// @Produce json
// @Success 200 {object} Response{data=CatalogResponse} "Catalog"
// @Router /workflow/phases [get]
func (h *WorkflowHandler) Phases(c *gin.Context) {
	RespondOK(c, catalogResponse(workflow.ProjectFlow))
}

func catalogResponse[S ~string](cat *workflow.Catalog[S]) CatalogResponse {
	stages := cat.Stages()
	resp := CatalogResponse{
		Name:     cat.Name(),
		Stages:   make([]workflow.Progress, 0, len(stages)),
		Initial:  string(cat.Initial()),
		Terminal: string(cat.Terminal()),
	}
	for _, s := range stages {
		// Every stage returned by Stages is a member.
		p, _ := cat.ProgressOf(s)
		resp.Stages = append(resp.Stages, p)
	}
	return resp
}
