package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/handler"
	"solarhub/internal/service"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name   string
		checks map[string]handler.Pinger
		want   int
		errMsg string
	}{
		{"no checks", nil, http.StatusOK, ""},
		{"all up", map[string]handler.Pinger{"database": ok, "redis": ok}, http.StatusOK, ""},
		{"redis down", map[string]handler.Pinger{"database": ok, "redis": down}, http.StatusServiceUnavailable, "redis not reachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.checks)
			c, w := newContext(http.MethodGet, "/readyz", nil, service.Caller{})

			h.Readiness(c)

			assert.Equal(t, tt.want, w.Code)
			var resp handler.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.errMsg, resp.Error)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil)
	c, w := newContext(http.MethodGet, "/healthz", nil, service.Caller{})

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
