package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solarhub/internal/domain"
	"solarhub/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projects service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Convert handles POST /api/v1/applications/:id/project
// @Summary Convert an approved application into a project
// @Tags projects
// @Produce json
// @Param id path string true "Application ID"
// @Success 201 {object} Response{data=ProjectView} "Project created"
// @Failure 409 {object} ErrorResponseBody "Not approved yet or already converted"
// @Security BearerAuth
// @Router /applications/{id}/project [post]
func (h *ProjectHandler) Convert(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.ConvertToProject(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProject(c, http.StatusCreated, project)
}

// List handles GET /api/v1/projects
// @Summary List own projects
// @Tags projects
// @Produce json
// @Success 200 {object} Response{data=[]ProjectView} "Projects"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}

	projects, err := h.projects.ListByOwner(c.Request.Context(), caller.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	views, err := newProjectViews(projects)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, views)
}

// GetByID handles GET /api/v1/projects/:id
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} Response{data=ProjectView} "Project"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProject(c, http.StatusOK, project)
}

// Advance handles POST /api/v1/projects/:id/advance
// @Summary Advance a project to its next phase
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} Response{data=ProjectView} "Project"
// @Security BearerAuth
// @Router /projects/{id}/advance [post]
func (h *ProjectHandler) Advance(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.AdvancePhase(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProject(c, http.StatusOK, project)
}

// AdminList handles GET /api/v1/admin/projects
// @Summary List all projects
// @Tags admin
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]ProjectView,meta=PagMeta} "Projects"
// @Security BearerAuth
// @Router /admin/projects [get]
func (h *ProjectHandler) AdminList(c *gin.Context) {
	offset, limit := parsePagination(c)

	projects, total, err := h.projects.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	views, err := newProjectViews(projects)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, views, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// AdminSetPhase handles PUT /api/v1/admin/projects/:id/phase
// @Summary Override project phase
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param body body SetPhaseRequest true "Phase"
// @Success 200 {object} Response{data=ProjectView} "Project"
// @Failure 400 {object} ErrorResponseBody "Unknown phase"
// @Security BearerAuth
// @Router /admin/projects/{id}/phase [put]
func (h *ProjectHandler) AdminSetPhase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	project, err := h.projects.SetPhase(c.Request.Context(), id, domain.ProjectPhase(req.Phase))
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProject(c, http.StatusOK, project)
}

func respondProject(c *gin.Context, status int, p *domain.Project) {
	view, err := newProjectView(*p)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(status, APIResponse{Success: true, Data: view})
}
