// Package beacon delivers reading-progress payloads. Two senders cover the
// two delivery situations: FireAndForget for teardown-time sends where no
// response will ever be observed, and KeepAlive for periodic sends where the
// caller needs to know the send was confirmed.
package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the reading-progress report accepted by the progress endpoint.
type Payload struct {
	ViewEventID int64 `json:"view_event_id"`
	Duration    int   `json:"duration"`
	Completed   bool  `json:"completed"`
}

// Sender delivers one payload to an endpoint.
type Sender interface {
	Send(ctx context.Context, endpoint string, p Payload) error
}

const fireAndForgetTimeout = 5 * time.Second

// FireAndForget sends without observing the result. The send is detached from
// the caller's context so caller teardown cannot cancel it.
type FireAndForget struct {
	client *http.Client
}

func NewFireAndForget() *FireAndForget {
	return &FireAndForget{
		client: &http.Client{Timeout: fireAndForgetTimeout},
	}
}

// Send starts the delivery and returns immediately. Errors are invisible to
// the caller, matching beacon semantics.
func (f *FireAndForget) Send(_ context.Context, endpoint string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	go func() {
		resp, err := f.client.Post(endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return nil
}

// KeepAlive sends a standard JSON POST and reports whether the endpoint
// confirmed it.
type KeepAlive struct {
	client *http.Client
}

func NewKeepAlive() *KeepAlive {
	return &KeepAlive{
		client: &http.Client{},
	}
}

func (k *KeepAlive) Send(ctx context.Context, endpoint string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send progress: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("progress endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
