package playback

import (
	"errors"
	"testing"
	"time"
)

type fakePlayer struct {
	skips []float64
	err   error
}

func (p *fakePlayer) SkipTo(t float64) error {
	if p.err != nil {
		return p.err
	}
	p.skips = append(p.skips, t)
	return nil
}

type fakeAffordance struct {
	shows []Segment
	hides int
}

func (a *fakeAffordance) Show(seg Segment) { a.shows = append(a.shows, seg) }
func (a *fakeAffordance) Hide()            { a.hides++ }

type fakeNotifier struct {
	durations []float64
}

func (n *fakeNotifier) Skipped(seconds float64) { n.durations = append(n.durations, seconds) }

// testMatcher returns a matcher with a controllable clock.
func testMatcher(p *fakePlayer, a *fakeAffordance, n *fakeNotifier) (*Matcher, *time.Time) {
	var notifier Notifier
	if n != nil {
		notifier = n
	}
	m := NewMatcher(p, a, notifier)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestSample_AutoSkip(t *testing.T) {
	player := &fakePlayer{}
	notifier := &fakeNotifier{}
	m, _ := testMatcher(player, &fakeAffordance{}, notifier)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40, AdType: "hard_ad"}})

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}

	if len(player.skips) != 1 || player.skips[0] != 40 {
		t.Errorf("skips = %v, want [40]", player.skips)
	}
	if len(notifier.durations) != 1 || notifier.durations[0] != 30 {
		t.Errorf("notified durations = %v, want [30]", notifier.durations)
	}
}

func TestSample_BoundaryGuard(t *testing.T) {
	// Segment (10, 40): 39.4 is inside, 39.6 is already past end-0.5.
	tests := []struct {
		name     string
		pos      float64
		wantSkip bool
	}{
		{"well inside", 20, true},
		{"just inside the guard", 39.4, true},
		{"inside the guard zone", 39.6, false},
		{"exactly at end", 40, false},
		{"before start", 9.9, false},
		{"exactly at start", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{}
			m, _ := testMatcher(player, &fakeAffordance{}, nil)
			m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})

			if err := m.Sample(tt.pos); err != nil {
				t.Fatalf("Sample error: %v", err)
			}
			if got := len(player.skips) == 1; got != tt.wantSkip {
				t.Errorf("Sample(%.1f) skipped = %v, want %v", tt.pos, got, tt.wantSkip)
			}
		})
	}
}

func TestSample_Cooldown(t *testing.T) {
	player := &fakePlayer{}
	m, now := testMatcher(player, &fakeAffordance{}, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(player.skips) != 1 {
		t.Fatalf("first sample: skips = %v, want 1 skip", player.skips)
	}

	// 100ms later, still inside the window: cooldown blocks.
	*now = now.Add(100 * time.Millisecond)
	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(player.skips) != 1 {
		t.Errorf("cooldown sample: skips = %v, want still 1", player.skips)
	}

	// Past the cooldown, a match acts again.
	*now = now.Add(Cooldown)
	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(player.skips) != 2 {
		t.Errorf("post-cooldown sample: skips = %v, want 2", player.skips)
	}
}

func TestSample_Idempotent(t *testing.T) {
	// The same non-matching position may be sampled repeatedly.
	player := &fakePlayer{}
	aff := &fakeAffordance{}
	m, _ := testMatcher(player, aff, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})

	for range 5 {
		if err := m.Sample(5); err != nil {
			t.Fatalf("Sample error: %v", err)
		}
	}
	if len(player.skips) != 0 {
		t.Errorf("skips = %v, want none", player.skips)
	}
	if aff.hides != 0 {
		t.Errorf("hides = %d, want 0 (nothing was shown)", aff.hides)
	}
}

func TestSample_EmptySegments(t *testing.T) {
	player := &fakePlayer{}
	m, _ := testMatcher(player, &fakeAffordance{}, nil)

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(player.skips) != 0 {
		t.Errorf("skips = %v, want none", player.skips)
	}
}

func TestSample_FirstMatchWinsOnOverlap(t *testing.T) {
	player := &fakePlayer{}
	m, _ := testMatcher(player, &fakeAffordance{}, nil)
	m.SetSegments([]Segment{
		{ID: 1, StartTime: 10, EndTime: 30},
		{ID: 2, StartTime: 5, EndTime: 50},
	})

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	// Both contain 15; the earlier-listed segment wins.
	if len(player.skips) != 1 || player.skips[0] != 30 {
		t.Errorf("skips = %v, want [30]", player.skips)
	}
}

func TestSample_ManualModeShowsAffordanceOnce(t *testing.T) {
	player := &fakePlayer{}
	aff := &fakeAffordance{}
	m, _ := testMatcher(player, aff, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})
	m.SetMode(ModeManual)

	for range 3 {
		if err := m.Sample(15); err != nil {
			t.Fatalf("Sample error: %v", err)
		}
	}

	if len(player.skips) != 0 {
		t.Errorf("manual mode skipped automatically: %v", player.skips)
	}
	if len(aff.shows) != 1 {
		t.Errorf("affordance shown %d times, want once", len(aff.shows))
	}
}

func TestSample_AffordanceHiddenWhenNoMatch(t *testing.T) {
	player := &fakePlayer{}
	aff := &fakeAffordance{}
	m, _ := testMatcher(player, aff, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})
	m.SetMode(ModeManual)

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(aff.shows) != 1 {
		t.Fatalf("affordance shown %d times, want once", len(aff.shows))
	}

	// Position moves past the segment: affordance goes away.
	if err := m.Sample(45); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if aff.hides != 1 {
		t.Errorf("hides = %d, want 1", aff.hides)
	}
}

func TestTriggerSkip(t *testing.T) {
	player := &fakePlayer{}
	aff := &fakeAffordance{}
	notifier := &fakeNotifier{}
	m, now := testMatcher(player, aff, notifier)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})
	m.SetMode(ModeManual)

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if err := m.TriggerSkip(); err != nil {
		t.Fatalf("TriggerSkip error: %v", err)
	}

	if len(player.skips) != 1 || player.skips[0] != 40 {
		t.Errorf("skips = %v, want [40]", player.skips)
	}
	if aff.hides != 1 {
		t.Errorf("hides = %d, want 1 after the click", aff.hides)
	}

	// The click armed the cooldown.
	m.SetMode(ModeAuto)
	*now = now.Add(100 * time.Millisecond)
	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(player.skips) != 1 {
		t.Errorf("skips = %v, want still 1 during cooldown", player.skips)
	}
}

func TestTriggerSkip_NothingShown(t *testing.T) {
	player := &fakePlayer{}
	m, _ := testMatcher(player, &fakeAffordance{}, nil)

	if err := m.TriggerSkip(); err != nil {
		t.Fatalf("TriggerSkip error: %v", err)
	}
	if len(player.skips) != 0 {
		t.Errorf("skips = %v, want none", player.skips)
	}
}

func TestSetMode_AutoHidesAffordance(t *testing.T) {
	player := &fakePlayer{}
	aff := &fakeAffordance{}
	m, _ := testMatcher(player, aff, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})
	m.SetMode(ModeManual)

	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(aff.shows) != 1 {
		t.Fatalf("affordance not shown")
	}

	m.SetMode(ModeAuto)
	if aff.hides != 1 {
		t.Errorf("hides = %d, want 1 immediately on switch to auto", aff.hides)
	}

	// The mode itself applies on the next sample.
	if m.Mode() != ModeManual {
		t.Errorf("mode applied retroactively: %s", m.Mode())
	}
	if err := m.Sample(5); err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if m.Mode() != ModeAuto {
		t.Errorf("mode = %s after sample, want auto", m.Mode())
	}
}

func TestSample_SkipFailureRetries(t *testing.T) {
	player := &fakePlayer{err: errors.New("player surface unavailable")}
	m, now := testMatcher(player, &fakeAffordance{}, nil)
	m.SetSegments([]Segment{{ID: 1, StartTime: 10, EndTime: 40}})

	if err := m.Sample(15); err == nil {
		t.Fatal("expected the skip failure to surface")
	}

	// Failure must not arm the cooldown: the very next sample retries.
	player.err = nil
	*now = now.Add(SampleInterval)
	if err := m.Sample(15); err != nil {
		t.Fatalf("retry Sample error: %v", err)
	}
	if len(player.skips) != 1 {
		t.Errorf("skips = %v, want 1 after retry", player.skips)
	}
}
