package carousel

import (
	"testing"
	"time"
)

// newTestCarousel uses a long auto-advance period so timers never fire during
// a test.
func newTestCarousel(n int, opts ...func(*Config)) *Carousel {
	cfg := Config{Items: n, AutoAdvancePeriod: time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := New(cfg)
	return c
}

func TestClassify_SevenItems(t *testing.T) {
	// n=7, current=2: the five visible tiers plus two hidden items.
	tests := []struct {
		index int
		want  Tier
	}{
		{2, TierCenter},
		{3, TierRight},
		{1, TierLeft},
		{4, TierFarRight},
		{0, TierFarLeft},
		{5, TierHidden},
		{6, TierHidden},
	}

	for _, tt := range tests {
		if got := Classify(tt.index, 2, 7); got != tt.want {
			t.Errorf("Classify(%d, 2, 7) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestClassify_WrapsModularly(t *testing.T) {
	// current at the last index: index 0 is adjacent-right, not far away.
	if got := Classify(0, 6, 7); got != TierRight {
		t.Errorf("Classify(0, 6, 7) = %v, want TierRight", got)
	}
	if got := Classify(5, 6, 7); got != TierLeft {
		t.Errorf("Classify(5, 6, 7) = %v, want TierLeft", got)
	}
}

func TestClassify_SmallCounts(t *testing.T) {
	// Three items: every item is visible.
	if got := Classify(1, 0, 3); got != TierRight {
		t.Errorf("Classify(1, 0, 3) = %v, want TierRight", got)
	}
	if got := Classify(2, 0, 3); got != TierLeft {
		t.Errorf("Classify(2, 0, 3) = %v, want TierLeft", got)
	}

	if got := Classify(0, 0, 1); got != TierCenter {
		t.Errorf("Classify(0, 0, 1) = %v, want TierCenter", got)
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	if got := Classify(3, 0, 3); got != TierHidden {
		t.Errorf("Classify(3, 0, 3) = %v, want TierHidden", got)
	}
	if got := Classify(0, 0, 0); got != TierHidden {
		t.Errorf("Classify(0, 0, 0) = %v, want TierHidden", got)
	}
}

func TestNext_CyclicClosure(t *testing.T) {
	c := newTestCarousel(7)
	defer c.Stop()

	start := c.Current()
	for i := 0; i < 7; i++ {
		c.Next()
	}

	if got := c.Current(); got != start {
		t.Errorf("after 7 Next calls Current() = %d, want %d", got, start)
	}
}

func TestPrev_WrapsBackward(t *testing.T) {
	c := newTestCarousel(5)
	defer c.Stop()

	c.Prev()
	if got := c.Current(); got != 4 {
		t.Errorf("Prev() from 0 gives Current() = %d, want 4", got)
	}
}

func TestGoTo_IgnoresOutOfRange(t *testing.T) {
	c := newTestCarousel(5)
	defer c.Stop()

	c.GoTo(3)
	c.GoTo(9)
	c.GoTo(-1)

	if got := c.Current(); got != 3 {
		t.Errorf("Current() = %d, want 3", got)
	}
}

func TestState_SingleActiveIndicator(t *testing.T) {
	c := newTestCarousel(5)
	defer c.Stop()

	c.GoTo(2)
	ds := c.State()

	active := 0
	for i, on := range ds.Indicators {
		if on {
			active++
			if i != 2 {
				t.Errorf("indicator %d active, want only 2", i)
			}
		}
	}
	if active != 1 {
		t.Errorf("active indicators = %d, want 1", active)
	}
	if len(ds.Items) != 5 {
		t.Errorf("len(Items) = %d, want 5", len(ds.Items))
	}
}

func TestSwipe_Threshold(t *testing.T) {
	c := newTestCarousel(5)
	defer c.Stop()

	c.Swipe(-49) // under threshold
	if got := c.Current(); got != 0 {
		t.Errorf("Current() after sub-threshold swipe = %d, want 0", got)
	}

	c.Swipe(-50) // leftward swipe advances
	if got := c.Current(); got != 1 {
		t.Errorf("Current() after leftward swipe = %d, want 1", got)
	}

	c.Swipe(75) // rightward swipe retreats
	if got := c.Current(); got != 0 {
		t.Errorf("Current() after rightward swipe = %d, want 0", got)
	}
}

func TestHandleKey_SuppressedInTextInput(t *testing.T) {
	inText := false
	c := newTestCarousel(5, func(cfg *Config) {
		cfg.TextInputFocused = func() bool { return inText }
	})
	defer c.Stop()

	c.HandleKey(KeyRight)
	if got := c.Current(); got != 1 {
		t.Fatalf("Current() after KeyRight = %d, want 1", got)
	}

	inText = true
	c.HandleKey(KeyRight)
	if got := c.Current(); got != 1 {
		t.Errorf("Current() after suppressed KeyRight = %d, want still 1", got)
	}
}

func TestClickItem_CenterActivatesOthersJump(t *testing.T) {
	c := newTestCarousel(5)
	defer c.Stop()

	if !c.ClickItem(0) {
		t.Error("ClickItem(center) = false, want true")
	}

	if c.ClickItem(3) {
		t.Error("ClickItem(non-center) = true, want false")
	}
	if got := c.Current(); got != 3 {
		t.Errorf("Current() after ClickItem(3) = %d, want 3", got)
	}
}

func TestOnChange_CalledPerNavigation(t *testing.T) {
	var states []DisplayState
	c := newTestCarousel(5, func(cfg *Config) {
		cfg.OnChange = func(ds DisplayState) { states = append(states, ds) }
	})
	defer c.Stop()

	c.Next()
	c.GoTo(4)

	if len(states) != 2 {
		t.Fatalf("OnChange called %d times, want 2", len(states))
	}
	if states[1].Current != 4 {
		t.Errorf("last state Current = %d, want 4", states[1].Current)
	}
}
