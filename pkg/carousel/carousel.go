// Package carousel implements the rotating book-cover display as a pure state
// machine. One item is centered; every other item's visual tier is a function
// of its circular distance from the centered index. The rendering host
// receives the full display state after every change.
package carousel

import (
	"sync"
	"time"

	"github.com/fyangcodes/webnovel-reader/pkg/schedule"
)

// Tier is the visual bucket an item lands in relative to the centered item.
type Tier int

const (
	TierCenter Tier = iota
	TierRight
	TierLeft
	TierFarRight
	TierFarLeft
	TierHidden
)

func (t Tier) String() string {
	switch t {
	case TierCenter:
		return "center"
	case TierRight:
		return "right"
	case TierLeft:
		return "left"
	case TierFarRight:
		return "far-right"
	case TierFarLeft:
		return "far-left"
	default:
		return "hidden"
	}
}

// Classify buckets an item by circular distance from the centered index:
// (index - current + n) mod n, with distance 1 and n-1 adjacent and 2 and n-2
// in the far tiers. Everything else is hidden.
func Classify(index, current, n int) Tier {
	if n <= 0 || index < 0 || index >= n {
		return TierHidden
	}
	d := ((index-current)%n + n) % n
	switch {
	case d == 0:
		return TierCenter
	case d == 1:
		return TierRight
	case d == n-1:
		return TierLeft
	case d == 2:
		return TierFarRight
	case d == n-2:
		return TierFarLeft
	default:
		return TierHidden
	}
}

const (
	// AutoAdvancePeriod is the fixed auto-rotation interval.
	AutoAdvancePeriod = 5 * time.Second

	// SwipeThreshold is the minimum horizontal delta, in screen units, for a
	// swipe to register.
	SwipeThreshold = 50
)

// ItemState is one item's computed display position.
type ItemState struct {
	Index int
	Tier  Tier
}

// DisplayState is everything the host needs to redraw: item tiers plus which
// indicator dot is active. Metadata and description cards follow the item
// tiers directly.
type DisplayState struct {
	Current    int
	Items      []ItemState
	Indicators []bool
}

// Key identifies a navigation key press.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

// Config wires a Carousel to its host.
type Config struct {
	// Items is the total item count; must be positive.
	Items int

	// OnChange is called with the recomputed display state after every
	// navigation, including auto-advance.
	OnChange func(DisplayState)

	// TextInputFocused reports whether keyboard focus is in a text input;
	// arrow keys are ignored while it returns true.
	TextInputFocused func() bool

	AutoAdvancePeriod time.Duration
}

// Carousel holds the cyclic display state for a fixed set of items.
type Carousel struct {
	mu       sync.Mutex
	n        int
	current  int
	onChange func(DisplayState)
	focused  func() bool
	auto     *schedule.Interval
}

func New(cfg Config) *Carousel {
	c := &Carousel{
		n:        cfg.Items,
		onChange: cfg.OnChange,
		focused:  cfg.TextInputFocused,
	}
	if c.onChange == nil {
		c.onChange = func(DisplayState) {}
	}
	if c.focused == nil {
		c.focused = func() bool { return false }
	}

	period := cfg.AutoAdvancePeriod
	if period <= 0 {
		period = AutoAdvancePeriod
	}
	c.auto = schedule.NewInterval(period, c.autoAdvance)

	return c
}

// Current returns the centered index.
func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Len returns the item count.
func (c *Carousel) Len() int { return c.n }

// State recomputes the full display state for the current position.
func (c *Carousel) State() DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Carousel) stateLocked() DisplayState {
	ds := DisplayState{
		Current:    c.current,
		Items:      make([]ItemState, c.n),
		Indicators: make([]bool, c.n),
	}
	for i := 0; i < c.n; i++ {
		ds.Items[i] = ItemState{Index: i, Tier: Classify(i, c.current, c.n)}
	}
	if c.n > 0 {
		ds.Indicators[c.current] = true
	}
	return ds
}

// Next advances one position and restarts the auto-advance timer.
func (c *Carousel) Next() { c.jump(1, true) }

// Prev retreats one position and restarts the auto-advance timer.
func (c *Carousel) Prev() { c.jump(-1, true) }

// GoTo centers the given index and restarts the auto-advance timer.
func (c *Carousel) GoTo(index int) {
	c.mu.Lock()
	if c.n == 0 || index < 0 || index >= c.n {
		c.mu.Unlock()
		return
	}
	c.current = index
	ds := c.stateLocked()
	c.mu.Unlock()

	c.auto.Reset()
	c.onChange(ds)
}

func (c *Carousel) jump(delta int, manual bool) {
	c.mu.Lock()
	if c.n == 0 {
		c.mu.Unlock()
		return
	}
	c.current = ((c.current+delta)%c.n + c.n) % c.n
	ds := c.stateLocked()
	c.mu.Unlock()

	// Manual navigation restarts the timer rather than letting the running
	// period finish.
	if manual {
		c.auto.Reset()
	}
	c.onChange(ds)
}

func (c *Carousel) autoAdvance() { c.jump(1, false) }

// PointerEnter pauses auto-advance while the pointer hovers the container.
func (c *Carousel) PointerEnter() { c.auto.Pause() }

// PointerLeave resumes auto-advance.
func (c *Carousel) PointerLeave() { c.auto.Resume() }

// Swipe handles a horizontal swipe gesture. A leftward swipe (negative delta)
// advances; rightward retreats. Deltas under SwipeThreshold are ignored.
func (c *Carousel) Swipe(deltaX float64) {
	switch {
	case deltaX <= -SwipeThreshold:
		c.Next()
	case deltaX >= SwipeThreshold:
		c.Prev()
	}
}

// HandleKey handles arrow-key navigation. Keys are suppressed while focus is
// in a text input.
func (c *Carousel) HandleKey(k Key) {
	if c.focused() {
		return
	}
	switch k {
	case KeyLeft:
		c.Prev()
	case KeyRight:
		c.Next()
	}
}

// ClickItem handles a click on the item at index. Clicking the centered item
// activates it (the host follows its link); clicking any other item becomes a
// jump to that index and the link is suppressed.
func (c *Carousel) ClickItem(index int) (activate bool) {
	if index == c.Current() {
		return true
	}
	c.GoTo(index)
	return false
}

// Stop cancels the auto-advance timer.
func (c *Carousel) Stop() { c.auto.Stop() }
