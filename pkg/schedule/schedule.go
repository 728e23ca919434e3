// Package schedule provides the small timing primitives the widgets need:
// a repeating cancellable interval, a trailing-edge debounce combinator, and
// an injectable clock so rate-limit logic is testable without sleeping.
package schedule

import (
	"sync"
	"time"
)

// Clock supplies the current time. Production code uses SystemClock; tests
// substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Interval runs fn repeatedly with a fixed period until stopped. It can be
// paused and resumed, and Reset restarts the full period from now.
type Interval struct {
	mu      sync.Mutex
	period  time.Duration
	fn      func()
	timer   *time.Timer
	paused  bool
	stopped bool
}

// NewInterval starts a repeating interval. The first run happens one full
// period after creation.
func NewInterval(period time.Duration, fn func()) *Interval {
	iv := &Interval{period: period, fn: fn}
	iv.mu.Lock()
	iv.arm()
	iv.mu.Unlock()
	return iv
}

// arm schedules the next tick. Caller must hold mu.
func (iv *Interval) arm() {
	iv.timer = time.AfterFunc(iv.period, iv.tick)
}

func (iv *Interval) tick() {
	iv.mu.Lock()
	if iv.stopped || iv.paused {
		iv.mu.Unlock()
		return
	}
	iv.arm()
	fn := iv.fn
	iv.mu.Unlock()
	fn()
}

// Reset restarts the interval so the next run is one full period from now.
func (iv *Interval) Reset() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopped {
		return
	}
	iv.paused = false
	if iv.timer != nil {
		iv.timer.Stop()
	}
	iv.arm()
}

// Pause suspends ticks until Resume or Reset.
func (iv *Interval) Pause() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopped {
		return
	}
	iv.paused = true
	if iv.timer != nil {
		iv.timer.Stop()
	}
}

// Resume continues a paused interval with a full period before the next run.
func (iv *Interval) Resume() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopped || !iv.paused {
		return
	}
	iv.paused = false
	iv.arm()
}

// Stop permanently cancels the interval.
func (iv *Interval) Stop() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.stopped = true
	if iv.timer != nil {
		iv.timer.Stop()
	}
}

// Debounce returns a trailing-edge debounced wrapper around fn: rapid calls
// collapse so fn runs once, d after the last call. The stop func cancels any
// pending run.
func Debounce(d time.Duration, fn func()) (call func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	call = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}

	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}

	return call, stop
}
