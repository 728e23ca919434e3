// Package analytics forwards widget events to whichever collector is
// reachable. External collectors are probed once at construction; when none
// answers, events land in the capped local buffer instead.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fyangcodes/webnovel-reader/models"
	"github.com/fyangcodes/webnovel-reader/pkg/db"
)

// Sink is a destination for analytics events.
type Sink interface {
	Name() string
	Emit(ctx context.Context, e models.Event) error
}

// Prober is implemented by sinks whose availability can be checked up front.
type Prober interface {
	Probe(ctx context.Context) bool
}

const probeTimeout = 2 * time.Second

// HTTPSink posts events as JSON to an external collector endpoint.
type HTTPSink struct {
	name     string
	endpoint string
	client   *http.Client
}

// NewPlausibleSink targets a Plausible-style events endpoint.
func NewPlausibleSink(endpoint string) *HTTPSink {
	return &HTTPSink{name: "plausible", endpoint: endpoint, client: &http.Client{}}
}

// NewGtagSink targets a gtag-style collect endpoint.
func NewGtagSink(endpoint string) *HTTPSink {
	return &HTTPSink{name: "gtag", endpoint: endpoint, client: &http.Client{}}
}

func (s *HTTPSink) Name() string { return s.name }

func (s *HTTPSink) Emit(ctx context.Context, e models.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}

	return nil
}

// Probe reports whether the collector endpoint answers at all. Any HTTP
// response counts; only transport failure marks the sink unavailable.
func (s *HTTPSink) Probe(ctx context.Context) bool {
	if s.endpoint == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}

// BufferSink stores events in the local SQLite buffer, capped at the most
// recent db.MaxBufferedEvents entries.
type BufferSink struct {
	store *db.DB
}

func NewBufferSink(store *db.DB) *BufferSink {
	return &BufferSink{store: store}
}

func (s *BufferSink) Name() string { return "local-buffer" }

func (s *BufferSink) Emit(_ context.Context, e models.Event) error {
	return s.store.InsertEvent(e)
}

// SelectSink picks the first candidate whose probe succeeds, falling back to
// fallback when none answers. Selection happens once; callers hold on to the
// result for the life of the page.
func SelectSink(ctx context.Context, fallback Sink, candidates ...Sink) Sink {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		p, ok := c.(Prober)
		if !ok || p.Probe(ctx) {
			return c
		}
	}
	return fallback
}

// Fire emits an event and swallows any failure after logging it. Analytics
// must never surface errors to the widget that produced the event.
func Fire(ctx context.Context, sink Sink, e models.Event) {
	if sink == nil {
		return
	}
	if err := sink.Emit(ctx, e); err != nil {
		log.Printf("analytics: dropping event %s: %s", e.Name, err)
	}
}
