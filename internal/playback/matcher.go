// Package playback implements the per-session skip decision engine. A Matcher
// holds the mutable state of one playback session and is driven by a
// fixed-interval stream of position samples; every effect it can have goes
// through the injected Player, Affordance and Notifier capabilities, so the
// host surface (a video element, a test double) stays out of the decision
// logic.
package playback

import (
	"time"
)

const (
	// SampleInterval is how often a session polls the playback position.
	SampleInterval = 200 * time.Millisecond

	// Cooldown is the minimum time between two skip actions. Prevents rapid
	// re-triggering when the position lands back inside a segment.
	Cooldown = 500 * time.Millisecond

	// BoundaryGuard trims the tail of every segment during matching so a skip
	// landing exactly on end_time cannot re-trigger on the next sample.
	BoundaryGuard = 0.5
)

// Modes of operation. In auto mode matches are skipped immediately; in manual
// mode a skip affordance is offered to the user instead.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// Segment is one advertisement time range, as served by the segment API.
type Segment struct {
	ID        int64   `json:"id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	AdType    string  `json:"ad_type"`
}

// Player is the capability to move the playback position.
type Player interface {
	SkipTo(t float64) error
}

// Affordance is the capability to offer a manual skip to the user.
type Affordance interface {
	Show(seg Segment)
	Hide()
}

// Notifier receives success notifications after a skip.
type Notifier interface {
	Skipped(seconds float64)
}

// Matcher decides, per position sample, whether to act on a segment. All
// state is private to one session; a Matcher must only be used from the
// session's sampling loop.
type Matcher struct {
	player     Player
	affordance Affordance
	notifier   Notifier
	now        func() time.Time

	segments    []Segment
	mode        Mode
	pendingMode Mode
	lastAction  time.Time
	shown       bool
	shownSeg    Segment

	// onSkip, when set, observes every successful skip. Used by Session for
	// best-effort telemetry.
	onSkip func(seg Segment)
}

// NewMatcher creates a matcher in auto mode with no segments.
func NewMatcher(player Player, affordance Affordance, notifier Notifier) *Matcher {
	return &Matcher{
		player:      player,
		affordance:  affordance,
		notifier:    notifier,
		now:         time.Now,
		mode:        ModeAuto,
		pendingMode: ModeAuto,
	}
}

// SetSegments replaces the segment list. Matching uses the new list from the
// next sample on.
func (m *Matcher) SetSegments(segments []Segment) {
	m.segments = segments
}

// SetMode requests a mode change; it takes effect on the next sample, never
// retroactively. Switching to auto hides any shown affordance immediately.
func (m *Matcher) SetMode(mode Mode) {
	m.pendingMode = mode
	if mode == ModeAuto {
		m.hideAffordance()
	}
}

// Mode returns the currently applied mode.
func (m *Matcher) Mode() Mode {
	return m.mode
}

// Sample evaluates one playback position. Samples are idempotent: the same
// position may be seen repeatedly between ticks and must produce the same
// decision. A skip failure is returned to the caller and the loop simply
// samples again; only a successful skip arms the cooldown.
func (m *Matcher) Sample(pos float64) error {
	m.mode = m.pendingMode

	match, ok := m.match(pos)

	if len(m.segments) == 0 || m.now().Sub(m.lastAction) < Cooldown {
		// Blocked tick: still clear a stale affordance when nothing matches.
		if !ok {
			m.hideAffordance()
		}
		return nil
	}

	if !ok {
		m.hideAffordance()
		return nil
	}

	if m.mode == ModeManual {
		if !m.shown {
			m.shown = true
			m.shownSeg = match
			m.affordance.Show(match)
		}
		return nil
	}

	return m.skip(match)
}

// TriggerSkip performs the skip bound to the currently shown affordance.
// No-op when nothing is shown.
func (m *Matcher) TriggerSkip() error {
	if !m.shown {
		return nil
	}
	return m.skip(m.shownSeg)
}

// match scans for the first segment containing pos, in list order. The
// trailing guard keeps a position just before end_time from re-matching after
// a jump. First-match wins on overlap.
func (m *Matcher) match(pos float64) (Segment, bool) {
	for _, seg := range m.segments {
		if pos >= seg.StartTime && pos < seg.EndTime-BoundaryGuard {
			return seg, true
		}
	}
	return Segment{}, false
}

func (m *Matcher) skip(seg Segment) error {
	if err := m.player.SkipTo(seg.EndTime); err != nil {
		return err
	}
	m.lastAction = m.now()
	m.hideAffordance()
	if m.notifier != nil {
		m.notifier.Skipped(seg.EndTime - seg.StartTime)
	}
	if m.onSkip != nil {
		m.onSkip(seg)
	}
	return nil
}

func (m *Matcher) hideAffordance() {
	if m.shown {
		m.shown = false
		m.affordance.Hide()
	}
}
