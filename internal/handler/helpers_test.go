package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/handler"
	"solarhub/internal/middleware"
	"solarhub/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func clientCaller() service.Caller {
	return service.Caller{UserID: uuid.New(), Role: domain.RoleClient}
}

func staffCaller() service.Caller {
	return service.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}
}

// newContext builds a test context authenticated as caller. A zero caller
// leaves the auth context empty.
func newContext(method, target string, body []byte, caller service.Caller) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, r)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if caller.UserID != uuid.Nil {
		c.Set(middleware.ContextKeyUserID, caller.UserID)
		c.Set(middleware.ContextKeyRole, string(caller.Role))
	}
	return c, w
}

func withID(c *gin.Context, id uuid.UUID) {
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// decode unmarshals the envelope and, when data is non-nil, its data field.
func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) handler.APIResponse {
	t.Helper()
	var raw struct {
		Success bool              `json:"success"`
		Data    json.RawMessage   `json:"data"`
		Error   *handler.APIError `json:"error"`
		Meta    *handler.PagMeta  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return handler.APIResponse{Success: raw.Success, Error: raw.Error, Meta: raw.Meta}
}

func sampleApp(owner uuid.UUID, status domain.ApplicationStatus) *domain.Application {
	return &domain.Application{
		ID:           uuid.New(),
		OwnerID:      owner,
		ProjectName:  "Warehouse rooftop",
		FacilityType: domain.FacilityCommercial,
		LoadProfile:  "1,500",
		Status:       status,
	}
}

func ginParam(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}
