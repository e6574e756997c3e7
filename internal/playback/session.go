package playback

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PositionSource reports the current playback position in seconds.
type PositionSource interface {
	Position() (float64, error)
}

// SegmentSource fetches the visible segment list for a video page.
type SegmentSource interface {
	Segments(ctx context.Context, bvid string, page int) ([]Segment, error)
}

// SkipReporter receives best-effort telemetry about performed skips. Calls
// are made from a separate goroutine and never block the sampling loop.
type SkipReporter interface {
	ReportSkip(bvid string, seg Segment)
}

// Session drives one Matcher from a periodic position sample until its
// context is cancelled. All matcher state stays confined to the loop
// goroutine; Refresh, SetMode and TriggerSkip must be called from the same
// goroutine that runs the loop.
type Session struct {
	BVID string
	Page int

	matcher  *Matcher
	position PositionSource
	source   SegmentSource
	log      zerolog.Logger
}

// NewSession wires a matcher to its position and segment sources. A nil
// reporter disables skip telemetry.
func NewSession(bvid string, page int, m *Matcher, pos PositionSource, src SegmentSource, rep SkipReporter, log zerolog.Logger) *Session {
	if rep != nil {
		m.onSkip = func(seg Segment) {
			// Fire and forget; session teardown does not wait for this.
			go rep.ReportSkip(bvid, seg)
		}
	}
	return &Session{
		BVID:     bvid,
		Page:     page,
		matcher:  m,
		position: pos,
		source:   src,
		log:      log.With().Str("bvid", bvid).Int("page", page).Logger(),
	}
}

// Refresh fetches the segment list and installs it in the matcher. The fetch
// completes before matching can use the new list; callers typically Refresh
// once before Run and again after their own submissions.
func (s *Session) Refresh(ctx context.Context) error {
	segments, err := s.source.Segments(ctx, s.BVID, s.Page)
	if err != nil {
		return err
	}
	s.matcher.SetSegments(segments)
	s.log.Debug().Int("segments", len(segments)).Msg("segment list refreshed")
	return nil
}

// Run samples the playback position at SampleInterval until ctx is cancelled.
// Sample errors (a skip the player refused) are logged and the loop carries
// on; the next tick retries matching normally.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(SampleInterval)
	defer ticker.Stop()

	s.log.Info().Msg("playback session started")

	for {
		select {
		case <-ticker.C:
			pos, err := s.position.Position()
			if err != nil {
				s.log.Warn().Err(err).Msg("position sample failed")
				continue
			}
			if err := s.matcher.Sample(pos); err != nil {
				s.log.Warn().Err(err).Float64("pos", pos).Msg("skip failed, will retry on next sample")
			}
		case <-ctx.Done():
			s.log.Info().Msg("playback session stopped")
			return
		}
	}
}

// TriggerSkip forwards the user's affordance click into the matcher.
func (s *Session) TriggerSkip() error {
	return s.matcher.TriggerSkip()
}

// SetMode forwards a mode change; it applies on the next sample.
func (s *Session) SetMode(mode Mode) {
	s.matcher.SetMode(mode)
}
