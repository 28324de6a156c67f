// Package relay delivers new-application notifications through the mail relay service.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solarhub/internal/domain"
	"solarhub/internal/port"
)

// maxReplyBytes bounds how much of the relay's reply is read.
const maxReplyBytes = 64 << 10

type relayNotifier struct {
	url    string
	client *http.Client
}

// NewRelayNotifier creates a Notifier that POSTs the full application JSON to url.
func NewRelayNotifier(url string, timeout time.Duration) port.Notifier {
	return NewRelayNotifierWithClient(url, &http.Client{Timeout: timeout})
}

// NewRelayNotifierWithClient is NewRelayNotifier with a caller-supplied HTTP client.
func NewRelayNotifierWithClient(url string, client *http.Client) port.Notifier {
	return &relayNotifier{url: url, client: client}
}

func (n *relayNotifier) NotifyNewApplication(ctx context.Context, app *domain.Application) (*port.NotifyResult, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("relayNotifier.NotifyNewApplication marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("relayNotifier.NotifyNewApplication request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relayNotifier.NotifyNewApplication: %w: %w", domain.ErrTransientIO, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("relayNotifier.NotifyNewApplication read: %w: %w", domain.ErrTransientIO, err)
	}

	var result port.NotifyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("relayNotifier.NotifyNewApplication: relay returned %d with non-JSON body", resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &result, fmt.Errorf("relayNotifier.NotifyNewApplication: relay returned %d: %s", resp.StatusCode, msg)
	}
	return &result, nil
}
