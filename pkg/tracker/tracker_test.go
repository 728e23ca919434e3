package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fyangcodes/webnovel-reader/pkg/beacon"
)

// manualClock advances only when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSender captures every payload it is asked to deliver.
type recordingSender struct {
	mu       sync.Mutex
	payloads []beacon.Payload
	fail     bool
}

func (s *recordingSender) Send(_ context.Context, _ string, p beacon.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.payloads = append(s.payloads, p)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *recordingSender) last() beacon.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads[len(s.payloads)-1]
}

func newTestTracker(clock *manualClock, final, periodic *recordingSender) *Tracker {
	return New(Config{
		ViewEventID: 7,
		Endpoint:    "http://example.com/progress",
		Final:       final,
		Periodic:    periodic,
		Clock:       clock,
	})
}

func TestFlush_SuppressedBeforeMinimumDuration(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)

	clock.Advance(2 * time.Second)
	tr.Flush(context.Background(), false)
	tr.Flush(context.Background(), true)

	if got := periodic.count() + final.count(); got != 0 {
		t.Errorf("sends before 3s = %d, want 0", got)
	}
}

func TestFlush_NonFinalRateLimited(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)
	if periodic.count() != 1 {
		t.Fatalf("sends after first flush = %d, want 1", periodic.count())
	}

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)
	if periodic.count() != 1 {
		t.Errorf("send within 10s of last = %d, want still 1", periodic.count())
	}

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)
	if periodic.count() != 2 {
		t.Errorf("send after 10s spacing = %d, want 2", periodic.count())
	}
}

func TestFlush_FinalBypassesRateLimit(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)
	clock.Advance(time.Second)
	tr.Flush(context.Background(), true)

	if final.count() != 1 {
		t.Errorf("final sends = %d, want 1 despite 10s spacing not elapsed", final.count())
	}
}

func TestFlush_FailedSendDoesNotAdvanceRateLimit(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{fail: true}
	tr := newTestTracker(clock, final, periodic)

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)

	// Delivery failed, so the next attempt must not be rate-limited.
	periodic.fail = false
	clock.Advance(time.Second)
	tr.Flush(context.Background(), false)

	if periodic.count() != 1 {
		t.Errorf("sends after failure then retry = %d, want 1", periodic.count())
	}
}

func TestMarkEndReached_OneWay(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)

	if tr.ReachedEnd() {
		t.Fatal("ReachedEnd() = true before any mark")
	}

	tr.MarkEndReached()
	tr.MarkEndReached()
	tr.MarkEndReached()

	if !tr.ReachedEnd() {
		t.Fatal("ReachedEnd() = false after mark")
	}

	clock.Advance(5 * time.Second)
	tr.Flush(context.Background(), false)
	if got := periodic.last(); !got.Completed {
		t.Errorf("payload.Completed = false, want true")
	}
}

func TestFlush_PayloadDuration(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)

	clock.Advance(17 * time.Second)
	tr.Flush(context.Background(), false)

	got := periodic.last()
	if got.Duration != 17 {
		t.Errorf("payload.Duration = %d, want 17", got.Duration)
	}
	if got.ViewEventID != 7 {
		t.Errorf("payload.ViewEventID = %d, want 7", got.ViewEventID)
	}
}

func TestStop_PerformsFinalFlush(t *testing.T) {
	clock := newManualClock()
	final := &recordingSender{}
	periodic := &recordingSender{}
	tr := newTestTracker(clock, final, periodic)
	tr.Start()

	clock.Advance(5 * time.Second)
	tr.Stop(context.Background())

	if final.count() != 1 {
		t.Errorf("final sends after Stop = %d, want 1", final.count())
	}

	// Stop is idempotent.
	tr.Stop(context.Background())
	if final.count() != 1 {
		t.Errorf("final sends after second Stop = %d, want still 1", final.count())
	}
}

func TestEndReached_Fallback(t *testing.T) {
	tests := []struct {
		scrollTop, viewport, docHeight int
		want                           bool
	}{
		{0, 800, 5000, false},
		{4100, 800, 5000, true},  // exactly docHeight-100
		{4099, 800, 5000, false}, // one pixel short
		{4200, 800, 5000, true},
	}

	for _, tt := range tests {
		if got := EndReached(tt.scrollTop, tt.viewport, tt.docHeight); got != tt.want {
			t.Errorf("EndReached(%d, %d, %d) = %v, want %v", tt.scrollTop, tt.viewport, tt.docHeight, got, tt.want)
		}
	}
}
