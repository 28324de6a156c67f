package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"solarhub/internal/domain"
	"solarhub/internal/service"
)

// UploadHandler handles attachment uploads.
type UploadHandler struct {
	uploads service.UploadService
	maxBody int64
}

// NewUploadHandler creates a new UploadHandler. maxBody bounds the whole
// multipart request.
func NewUploadHandler(uploads service.UploadService, maxBody int64) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxBody: maxBody}
}

// Upload handles POST /api/v1/uploads
// @Summary Upload application attachments
// @Description Upload bills, photos and load data for a later submission. Categories upload concurrently and fail independently; pass the returned session_id as upload_session_id when submitting.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param session_id formData string false "Upload session ID (generated when omitted)"
// @Param bills formData file false "Electricity bills (repeatable)"
// @Param photos formData file false "Site photos (repeatable)"
// @Param load_data formData file false "Load data files (repeatable)"
// @Success 201 {object} Response{data=service.UploadResult} "All files stored"
// @Success 207 {object} Response{data=service.UploadResult} "Some categories failed"
// @Failure 400 {object} ErrorResponseBody "No files or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}

	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_MULTIPART", "request must be multipart/form-data within the size limit")
		return
	}

	files := make(map[domain.FileCategory][]service.UploadFile)
	for _, cat := range domain.AllFileCategories {
		for _, fh := range form.File[string(cat)] {
			files[cat] = append(files[cat], fromHeader(fh))
		}
	}

	result, err := h.uploads.UploadFiles(c.Request.Context(), service.UploadInput{
		OwnerID:   caller.UserID,
		SessionID: c.PostForm("session_id"),
		Files:     files,
	})
	if result == nil {
		HandleError(c, err)
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusMultiStatus, APIResponse{Success: false, Data: result, Error: &APIError{
			Code:      "PARTIAL_UPLOAD",
			Message:   "some categories failed to upload",
			Retryable: retryable(err),
		}})
		return
	}
	RespondCreated(c, result)
}

func fromHeader(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}
