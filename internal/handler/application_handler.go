package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarhub/internal/domain"
	"solarhub/internal/export"
	"solarhub/internal/savings"
	"solarhub/internal/service"
	"solarhub/internal/tariff"
)

const exportBatchSize = 200

// ApplicationHandler handles application endpoints.
type ApplicationHandler struct {
	applications service.ApplicationService
	estimates    service.EstimateService
	tariffs      *tariff.Model
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(applications service.ApplicationService, estimates service.EstimateService, tariffs *tariff.Model) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, estimates: estimates, tariffs: tariffs}
}

// Create handles POST /api/v1/applications
// @Summary Submit an application
// @Description Submit a facility application. Status may only be set by staff; clients always start at Pending.
// @Tags applications
// @Accept json
// @Produce json
// @Param body body CreateApplicationRequest true "Application"
// @Success 201 {object} Response{data=ApplicationView} "Application created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Uploads still in progress"
// @Failure 503 {object} ErrorResponseBody "Store unavailable"
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	input := service.CreateApplicationInput{
		OwnerID:         caller.UserID,
		ProjectName:     req.ProjectName,
		FacilityType:    req.FacilityType,
		Location:        req.Location,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		SystemType:      req.SystemType,
		LoadProfile:     req.LoadProfile,
		Notes:           req.Notes,
		Files:           req.Files,
		UploadSessionID: req.UploadSessionID,
	}
	if caller.Role.IsStaff() {
		input.Status = req.Status
	}

	app, err := h.applications.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondApplication(c, http.StatusCreated, app)
}

// List handles GET /api/v1/applications
// @Summary List own applications
// @Description List the caller's applications, newest first
// @Tags applications
// @Produce json
// @Success 200 {object} Response{data=[]ApplicationView} "Applications"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}

	apps, err := h.applications.ListByOwner(c.Request.Context(), caller.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	views, err := newApplicationViews(apps)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, views)
}

// GetByID handles GET /api/v1/applications/:id
// @Summary Get an application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=ApplicationView} "Application"
// @Failure 403 {object} ErrorResponseBody "Not the owner"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	app, err := h.applications.Get(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondApplication(c, http.StatusOK, app)
}

// Update handles PATCH /api/v1/applications/:id
// @Summary Update an application
// @Description Merge the supplied fields into the application. Only staff may change status.
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param body body domain.ApplicationPatch true "Fields to change"
// @Success 200 {object} Response{data=ApplicationView} "Updated application"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) Update(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch domain.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	app, err := h.applications.Update(c.Request.Context(), caller, id, &patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondApplication(c, http.StatusOK, app)
}

// Delete handles DELETE /api/v1/applications/:id
// @Summary Delete an application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 403 {object} ErrorResponseBody "Forbidden"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.applications.Delete(c.Request.Context(), caller, id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "application deleted"})
}

// Advance handles POST /api/v1/applications/:id/advance
// @Summary Advance an application
// @Description Move the application to the next status. Completed applications stay Completed.
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=ApplicationView} "Application"
// @Failure 403 {object} ErrorResponseBody "Forbidden"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /applications/{id}/advance [post]
func (h *ApplicationHandler) Advance(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	app, err := h.applications.Advance(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondApplication(c, http.StatusOK, app)
}

// Offers handles GET /api/v1/applications/:id/offers
// @Summary Installer offers for an application
// @Description Clients see offers only while the application is Matched; staff always.
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=offer.Quote} "Offers"
// @Failure 409 {object} ErrorResponseBody "Matching not available yet"
// @Security BearerAuth
// @Router /applications/{id}/offers [get]
func (h *ApplicationHandler) Offers(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quote, err := h.estimates.ApplicationOffers(c.Request.Context(), caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, quote)
}

// Savings handles GET /api/v1/applications/:id/savings
// @Summary Savings projection for an application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Param years query int false "Horizon in years (1-25)" default(10)
// @Success 200 {object} Response{data=savings.Projection} "Projection"
// @Security BearerAuth
// @Router /applications/{id}/savings [get]
func (h *ApplicationHandler) Savings(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.estimates.ApplicationSavings(c.Request.Context(), caller, id, horizonParam(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// ExportSavings handles GET /api/v1/applications/:id/savings/export
// @Summary Download the savings projection as XLSX
// @Tags applications
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Application ID"
// @Param years query int false "Horizon in years (1-25)" default(10)
// @Success 200 {file} file "Workbook"
// @Failure 409 {object} ErrorResponseBody "No consumption to project"
// @Security BearerAuth
// @Router /applications/{id}/savings/export [get]
func (h *ApplicationHandler) ExportSavings(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	app, err := h.applications.Get(ctx, caller, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	p, err := h.estimates.ApplicationSavings(ctx, caller, id, horizonParam(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	if !p.Available {
		RespondError(c, http.StatusConflict, "NO_CONSUMPTION", "application has no parsable load profile")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSavingsWorkbook(&buf, app, *p); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(app.ProjectName+"_savings", "xlsx")+`"`)
	c.Data(http.StatusOK, string(domain.AllowedFileTypes[domain.FileTypeXLSX]), buf.Bytes())
}

// AdminList handles GET /api/v1/admin/applications
// @Summary List all applications
// @Tags admin
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]ApplicationView,meta=PagMeta} "Applications"
// @Failure 403 {object} ErrorResponseBody "Staff only"
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *ApplicationHandler) AdminList(c *gin.Context) {
	offset, limit := parsePagination(c)

	apps, total, err := h.applications.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	views, err := newApplicationViews(apps)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, views, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// AdminSetStatus handles PUT /api/v1/admin/applications/:id/status
// @Summary Override application status
// @Description Set any status of the catalog, forwards or backwards.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param body body SetStatusRequest true "Status"
// @Success 200 {object} Response{data=ApplicationView} "Application"
// @Failure 400 {object} ErrorResponseBody "Unknown status"
// @Security BearerAuth
// @Router /admin/applications/{id}/status [put]
func (h *ApplicationHandler) AdminSetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	app, err := h.applications.SetStatus(c.Request.Context(), id, domain.ApplicationStatus(req.Status))
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondApplication(c, http.StatusOK, app)
}

// AdminExport handles GET /api/v1/admin/applications/export
// @Summary Export all applications as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {file} file "CSV"
// @Security BearerAuth
// @Router /admin/applications/export [get]
func (h *ApplicationHandler) AdminExport(c *gin.Context) {
	ctx := c.Request.Context()

	// Fetch the first page before writing headers so a store failure still
	// yields a JSON error.
	apps, total, err := h.applications.ListAll(ctx, 0, exportBatchSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename("applications", "csv")+`"`)
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(export.BOM)

	w := export.NewCSVWriter(c.Writer, h.tariffs)
	if err := w.WriteHeader(); err != nil {
		_ = c.Error(err)
		return
	}
	for offset := 0; ; {
		if err := w.WriteApplications(apps); err != nil {
			_ = c.Error(err)
			return
		}
		offset += len(apps)
		if len(apps) == 0 || offset >= total {
			break
		}
		apps, _, err = h.applications.ListAll(ctx, offset, exportBatchSize)
		if err != nil {
			// Headers are already sent; the truncated file is all we can do.
			_ = c.Error(err)
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *ApplicationHandler) respondApplication(c *gin.Context, status int, app *domain.Application) {
	view, err := newApplicationView(*app)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(status, APIResponse{Success: true, Data: view})
}

func horizonParam(c *gin.Context) int {
	years, err := strconv.Atoi(c.DefaultQuery("years", strconv.Itoa(savings.DefaultHorizon)))
	if err != nil {
		return savings.DefaultHorizon
	}
	return years
}
