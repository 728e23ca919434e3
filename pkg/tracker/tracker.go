// Package tracker measures reading dwell time and scroll completion for a
// chapter view and reports it to the progress endpoint. Delivery is best
// effort: errors are logged and dropped, and the host is never blocked.
package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fyangcodes/webnovel-reader/pkg/beacon"
	"github.com/fyangcodes/webnovel-reader/pkg/schedule"
)

const (
	// MinReportAfter suppresses reports from immediate bounces.
	MinReportAfter = 3 * time.Second

	// MinSendSpacing rate-limits non-final sends.
	MinSendSpacing = 10 * time.Second

	// FlushPeriod is the periodic save interval.
	FlushPeriod = 30 * time.Second

	// EndProximity is the pixel tolerance for the scroll-position fallback.
	EndProximity = 100
)

// Config wires a Tracker to its collaborators. Zero-value fields fall back to
// production defaults.
type Config struct {
	ViewEventID int64
	Endpoint    string

	// Final delivers teardown-time sends; Periodic delivers confirmed sends.
	Final    beacon.Sender
	Periodic beacon.Sender

	// Hidden reports whether the page is currently hidden; periodic flushes
	// are skipped while it returns true.
	Hidden func() bool

	Clock       schedule.Clock
	FlushPeriod time.Duration
}

// Tracker is one reading session. Construct with New, start the periodic
// timer with Start, and call Stop when the view ends.
type Tracker struct {
	mu          sync.Mutex
	clock       schedule.Clock
	endpoint    string
	viewEventID int64
	start       time.Time
	reachedEnd  bool
	lastSent    time.Time
	stopped     bool

	final    beacon.Sender
	periodic beacon.Sender
	hidden   func() bool

	flushPeriod time.Duration
	interval    *schedule.Interval
}

func New(cfg Config) *Tracker {
	t := &Tracker{
		clock:       cfg.Clock,
		endpoint:    cfg.Endpoint,
		viewEventID: cfg.ViewEventID,
		final:       cfg.Final,
		periodic:    cfg.Periodic,
		hidden:      cfg.Hidden,
		flushPeriod: cfg.FlushPeriod,
	}
	if t.clock == nil {
		t.clock = schedule.SystemClock{}
	}
	if t.final == nil {
		t.final = beacon.NewFireAndForget()
	}
	if t.periodic == nil {
		t.periodic = beacon.NewKeepAlive()
	}
	if t.hidden == nil {
		t.hidden = func() bool { return false }
	}
	if t.flushPeriod <= 0 {
		t.flushPeriod = FlushPeriod
	}
	t.start = t.clock.Now()
	return t
}

// Start begins the periodic flush timer.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.interval != nil {
		return
	}
	t.interval = schedule.NewInterval(t.flushPeriod, func() {
		if t.hidden() {
			return
		}
		t.Flush(context.Background(), false)
	})
}

// Elapsed returns the wall-clock time since the session began.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Now().Sub(t.start)
}

// MarkEndReached records that the reader hit the end of the content. The flag
// is one-way; repeat calls are no-ops.
func (t *Tracker) MarkEndReached() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reachedEnd = true
}

// ReachedEnd reports whether the end of the content was ever reached.
func (t *Tracker) ReachedEnd() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reachedEnd
}

// EndReached is the scroll-position fallback for hosts without sentinel
// intersection reporting.
func EndReached(scrollTop, viewport, docHeight int) bool {
	return scrollTop+viewport >= docHeight-EndProximity
}

// Flush reports the current session state. Sessions shorter than
// MinReportAfter are never reported. Non-final flushes are rate-limited to
// one per MinSendSpacing and only advance the last-sent mark on confirmed
// delivery; final flushes bypass the rate limit and use fire-and-forget
// delivery.
func (t *Tracker) Flush(ctx context.Context, final bool) {
	t.mu.Lock()
	now := t.clock.Now()
	elapsed := now.Sub(t.start)
	if elapsed < MinReportAfter {
		t.mu.Unlock()
		return
	}
	if !final && !t.lastSent.IsZero() && now.Sub(t.lastSent) < MinSendSpacing {
		t.mu.Unlock()
		return
	}
	p := beacon.Payload{
		ViewEventID: t.viewEventID,
		Duration:    int(elapsed / time.Second),
		Completed:   t.reachedEnd,
	}
	sender := t.periodic
	if final {
		sender = t.final
	}
	t.mu.Unlock()

	if err := sender.Send(ctx, t.endpoint, p); err != nil {
		log.Printf("tracker: progress send failed: %s", err)
		return
	}

	if !final {
		t.mu.Lock()
		t.lastSent = now
		t.mu.Unlock()
	}
}

// Stop cancels the periodic timer and performs a final flush.
func (t *Tracker) Stop(ctx context.Context) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	iv := t.interval
	t.mu.Unlock()

	if iv != nil {
		iv.Stop()
	}
	t.Flush(ctx, true)
}
