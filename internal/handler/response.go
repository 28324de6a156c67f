package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"solarhub/internal/domain"
	"solarhub/internal/middleware"
	"solarhub/internal/service"
	"solarhub/internal/workflow"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response. Retryable marks failures
// the client may repeat unchanged.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUploadsPending):
		return http.StatusConflict, "UPLOADS_PENDING", "uploads for this session are still in progress; retry shortly"
	case errors.Is(err, domain.ErrMatchingUnavailable):
		return http.StatusConflict, "MATCHING_UNAVAILABLE", "installer matches are not available at the current status"
	case errors.Is(err, domain.ErrNotConvertible):
		return http.StatusConflict, "NOT_CONVERTIBLE", "application must be approved before it becomes a project"
	case errors.Is(err, domain.ErrProjectExists):
		return http.StatusConflict, "PROJECT_EXISTS", "project already exists for this application"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, csv, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrTransientIO):
		return http.StatusServiceUnavailable, "TRANSIENT_IO", "storage temporarily unavailable; retry shortly"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, workflow.ErrStageNotFound):
		return http.StatusInternalServerError, "INVALID_STAGE", "record holds a stage outside its lifecycle"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// retryable reports whether a client may repeat the request unchanged.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrTransientIO) || errors.Is(err, domain.ErrUploadsPending)
}

func validationMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "validation failed"
}

// HandleError maps a domain error and sends the appropriate error response.
// Server-side failures are attached to the context for the request logger.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		_ = c.Error(err)
	}

	apiErr := &APIError{Code: code, Message: msg, Retryable: retryable(err)}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		apiErr.Field = fe.Field
	}
	if apiErr.Retryable {
		c.Header("Retry-After", "2")
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

// extractCaller builds the service caller from the auth context.
// Returns false if auth context is missing (error response already written).
func extractCaller(c *gin.Context) (service.Caller, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Role: domain.UserRole(middleware.GetRole(c))}, true
}

// parseIDParam parses the :name path parameter as a UUID.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads offset and limit with the same bounds on every list.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
