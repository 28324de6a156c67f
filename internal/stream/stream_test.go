package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/stream"
)

type listFrame struct {
	Type string               `json:"type"`
	Data []domain.Application `json:"data"`
}

func identity(list []domain.Application) interface{} { return list }

func startServer(t *testing.T, hub *stream.Hub, owner uuid.UUID, updates chan []domain.Application, ctx context.Context) (*websocket.Conn, chan error) {
	t.Helper()
	upgrader := stream.NewUpgrader(nil)
	result := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			result <- err
			return
		}
		hub.Register(owner, conn)
		defer hub.Unregister(owner, conn)
		result <- stream.Pump(ctx, conn, updates, identity)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, result
}

func TestPump_WritesLists(t *testing.T) {
	hub := stream.NewHub()
	owner := uuid.New()
	updates := make(chan []domain.Application, 2)

	client, result := startServer(t, hub, owner, updates, context.Background())

	updates <- []domain.Application{{ProjectName: "first"}}
	var frame listFrame
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, client.ReadJSON(&frame))
	assert.Equal(t, stream.FrameApplications, frame.Type)
	require.Len(t, frame.Data, 1)
	assert.Equal(t, "first", frame.Data[0].ProjectName)
	assert.Equal(t, 1, hub.Online(owner))

	close(updates)
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop")
	}
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPump_StopsWhenPeerLeaves(t *testing.T) {
	hub := stream.NewHub()
	updates := make(chan []domain.Application)

	client, result := startServer(t, hub, uuid.New(), updates, context.Background())
	require.NoError(t, client.Close())

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not notice the closed peer")
	}
}

func TestPump_ContextCancelSendsClosing(t *testing.T) {
	hub := stream.NewHub()
	updates := make(chan []domain.Application)
	ctx, cancel := context.WithCancel(context.Background())

	client, result := startServer(t, hub, uuid.New(), updates, ctx)
	cancel()

	var frame listFrame
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, client.ReadJSON(&frame))
	assert.Equal(t, stream.FrameClosing, frame.Type)
	assert.ErrorIs(t, <-result, context.Canceled)
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	u := stream.NewUpgrader([]string{"https://app.solarhub.ae"})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	assert.True(t, u.CheckOrigin(req))

	req.Header.Set("Origin", "https://app.solarhub.ae")
	assert.True(t, u.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, u.CheckOrigin(req))
}

func TestHub_Close(t *testing.T) {
	hub := stream.NewHub()
	owner := uuid.New()
	updates := make(chan []domain.Application)

	_, result := startServer(t, hub, owner, updates, context.Background())
	require.Eventually(t, func() bool { return hub.Online(owner) == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.Count())
	select {
	case <-result:
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop after hub close")
	}
}
