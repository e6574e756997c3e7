package service

import (
	"math"
	"sort"

	"github.com/adskipper/adskipper-go/internal/model"
)

const (
	// WilsonZ is the z-value for a 95% confidence interval.
	WilsonZ = 1.96

	// ProtectionWindow is the vote count below which a segment is shielded
	// from confidence-based rejection so it can gather more votes.
	ProtectionWindow = 5

	// VisibilityThreshold is the minimum Wilson lower bound a mature segment
	// needs to stay visible.
	VisibilityThreshold = 0.7
)

// ScoreService turns raw up/down vote counts into a visibility decision and a
// ranking score. Pure and total over its domain; no storage access.
type ScoreService struct{}

func NewScoreService() *ScoreService {
	return &ScoreService{}
}

// Score computes the Wilson score lower bound of the approval rate at 95%
// confidence. A conservative estimate: with few votes it stays well below the
// raw up/(up+down) ratio.
func (s *ScoreService) Score(up, down int) float64 {
	n := float64(up + down)
	if n == 0 {
		return 0
	}

	z := WilsonZ
	p := float64(up) / n
	return (p + z*z/(2*n) - z*math.Sqrt(p*(1-p)/n+z*z/(4*n*n))) / (1 + z*z/n)
}

// Visible applies the visibility policy:
//   - no votes yet: always shown, so the segment can accumulate votes
//   - under ProtectionWindow votes: shown unless downvotes are present and at
//     least tie the upvotes
//   - at or past ProtectionWindow: shown only above VisibilityThreshold
func (s *ScoreService) Visible(up, down int) bool {
	n := up + down
	switch {
	case n == 0:
		return true
	case n < ProtectionWindow:
		return !(down >= 1 && down >= up)
	default:
		return s.Score(up, down) > VisibilityThreshold
	}
}

// Annotate filters segments down to the visible ones and converts them to API
// responses ordered by score descending, with segment id as a deterministic
// tiebreaker.
func (s *ScoreService) Annotate(segments []model.Segment, userVotes map[int64]string) []model.SegmentResponse {
	visible := []model.SegmentResponse{}
	for _, seg := range segments {
		if !s.Visible(seg.UpVotes, seg.DownVotes) {
			continue
		}
		visible = append(visible, model.SegmentResponse{
			ID:          seg.ID,
			StartTime:   seg.StartTime,
			EndTime:     seg.EndTime,
			AdType:      seg.AdType,
			UpVotes:     seg.UpVotes,
			DownVotes:   seg.DownVotes,
			WilsonScore: s.Score(seg.UpVotes, seg.DownVotes),
			UserVote:    userVotes[seg.ID],
		})
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].WilsonScore != visible[j].WilsonScore {
			return visible[i].WilsonScore > visible[j].WilsonScore
		}
		return visible[i].ID < visible[j].ID
	})
	return visible
}
