package playback

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type stubSource struct {
	segments []Segment
	err      error
	calls    int
}

func (s *stubSource) Segments(ctx context.Context, bvid string, page int) ([]Segment, error) {
	s.calls++
	return s.segments, s.err
}

type recordingReporter struct {
	mu    sync.Mutex
	skips []Segment
	done  chan struct{}
}

func (r *recordingReporter) ReportSkip(bvid string, seg Segment) {
	r.mu.Lock()
	r.skips = append(r.skips, seg)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func TestSessionRefresh(t *testing.T) {
	src := &stubSource{segments: []Segment{{ID: 1, StartTime: 10, EndTime: 40}}}
	m, _ := testMatcher(&fakePlayer{}, &fakeAffordance{}, nil)
	s := NewSession("BV1xx411c7mD", 1, m, nil, src, nil, zerolog.Nop())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if len(m.segments) != 1 {
		t.Errorf("matcher has %d segments after refresh, want 1", len(m.segments))
	}
}

func TestSessionRefresh_ErrorKeepsOldList(t *testing.T) {
	src := &stubSource{segments: []Segment{{ID: 1, StartTime: 10, EndTime: 40}}}
	m, _ := testMatcher(&fakePlayer{}, &fakeAffordance{}, nil)
	s := NewSession("BV1xx411c7mD", 1, m, nil, src, nil, zerolog.Nop())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	src.err = errors.New("network down")
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error to surface")
	}
	if len(m.segments) != 1 {
		t.Errorf("failed refresh replaced the segment list: %d segments", len(m.segments))
	}
}

func TestSessionReportsSkips(t *testing.T) {
	player := &fakePlayer{}
	reporter := &recordingReporter{done: make(chan struct{}, 1)}
	m, _ := testMatcher(player, &fakeAffordance{}, nil)
	// NewSession installs the skip hook on the matcher.
	NewSession("BV1xx411c7mD", 1, m, nil, &stubSource{}, reporter, zerolog.Nop())

	m.SetSegments([]Segment{{ID: 7, StartTime: 10, EndTime: 40}})
	if err := m.Sample(15); err != nil {
		t.Fatalf("Sample error: %v", err)
	}

	<-reporter.done
	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.skips) != 1 || reporter.skips[0].ID != 7 {
		t.Errorf("reported skips = %v, want segment 7", reporter.skips)
	}
}
