package relay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/notify/relay"
)

func TestRelayNotifier_Success(t *testing.T) {
	app := &domain.Application{ID: uuid.New(), ProjectName: "Farm pumps", FacilityType: domain.FacilityAgriculturalFarm}

	var got domain.Application
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	n := relay.NewRelayNotifier(srv.URL, time.Second)
	res, err := n.NotifyNewApplication(context.Background(), app)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, app.ID, got.ID)
	assert.Equal(t, "Farm pumps", got.ProjectName)
}

func TestRelayNotifier_RelayReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"error":"ses throttled"}`))
	}))
	defer srv.Close()

	res, err := relay.NewRelayNotifier(srv.URL, time.Second).
		NotifyNewApplication(context.Background(), &domain.Application{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ses throttled")
	require.NotNil(t, res)
	assert.False(t, res.Success)
}

func TestRelayNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := relay.NewRelayNotifier(url, time.Second).
		NotifyNewApplication(context.Background(), &domain.Application{})
	assert.ErrorIs(t, err, domain.ErrTransientIO)
}
