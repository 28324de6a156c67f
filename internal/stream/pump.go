package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"solarhub/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 512
)

// Frame is the JSON message written to stream clients.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	FrameApplications = "applications"
	FrameClosing      = "closing"
)

// Pump writes every list received from updates to conn until updates is
// closed, the peer disconnects or ctx ends. render shapes a list into the
// frame payload.
func Pump(ctx context.Context, conn *websocket.Conn, updates <-chan []domain.Application, render func([]domain.Application) interface{}) error {
	peerGone := make(chan struct{})
	go readLoop(conn, peerGone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteJSON(Frame{Type: FrameClosing})
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return ctx.Err()
		case <-peerGone:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case list, ok := <-updates:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Frame{Type: FrameApplications, Data: render(list)}); err != nil {
				return err
			}
		}
	}
}

// readLoop drains client frames so control messages are processed, and
// closes peerGone once the connection fails.
func readLoop(conn *websocket.Conn, peerGone chan<- struct{}) {
	defer close(peerGone)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
