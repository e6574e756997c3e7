package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
	"github.com/adskipper/adskipper-go/internal/repository"
)

// segmentStore is the slice of the segment repository the service needs.
type segmentStore interface {
	Submit(ctx context.Context, contributorID int64, req model.SubmitSegmentRequest) (int64, error)
	ListByVideo(ctx context.Context, bvid string, page int) ([]model.Segment, error)
	ListByBVIDs(ctx context.Context, bvids []string) (map[string][]model.Segment, error)
	Deactivate(ctx context.Context, requesterID, segmentID int64) (string, error)
}

// voteReader annotates listings with the requester's own votes.
type voteReader interface {
	VotesForUser(ctx context.Context, userID int64, segmentIDs []int64) (map[int64]string, error)
}

// listCache is the cache-aside surface for per-video segment listings.
type listCache interface {
	Enabled() bool
	GetSegmentList(ctx context.Context, bvid string, page int) ([]byte, error)
	SetSegmentList(ctx context.Context, bvid string, page int, data interface{}) error
	InvalidateVideo(ctx context.Context, bvid string) error
}

// SegmentService handles submission, lookup and deletion of ad segments.
type SegmentService struct {
	segments segmentStore
	votes    voteReader
	scorer   *ScoreService
	cache    listCache
}

func NewSegmentService(segments *repository.SegmentRepo, votes *repository.VoteRepo, scorer *ScoreService, cache *CacheService) *SegmentService {
	return &SegmentService{segments: segments, votes: votes, scorer: scorer, cache: cache}
}

// List returns the visible segments of one video page, scored, ranked, and
// annotated with the requester's own vote when one is known. The anonymous
// portion is cache-aside in Redis; user votes are always read fresh so the
// cache stays shareable across users.
func (s *SegmentService) List(ctx context.Context, bvid string, page int, userID *int64) ([]model.SegmentResponse, error) {
	visible, err := s.listVisible(ctx, bvid, page)
	if err != nil {
		return nil, err
	}

	if userID != nil && len(visible) > 0 {
		ids := make([]int64, len(visible))
		for i, seg := range visible {
			ids[i] = seg.ID
		}
		userVotes, err := s.votes.VotesForUser(ctx, *userID, ids)
		if err != nil {
			return nil, err
		}
		for i := range visible {
			visible[i].UserVote = userVotes[visible[i].ID]
		}
	}
	return visible, nil
}

func (s *SegmentService) listVisible(ctx context.Context, bvid string, page int) ([]model.SegmentResponse, error) {
	if cached, err := s.cache.GetSegmentList(ctx, bvid, page); err != nil {
		log.Printf("cache: segment list read error: %v", err)
	} else if cached != nil {
		var visible []model.SegmentResponse
		if err := json.Unmarshal(cached, &visible); err == nil {
			cacheHits.Inc()
			return visible, nil
		}
	} else if s.cache.Enabled() {
		cacheMisses.Inc()
	}

	segments, err := s.segments.ListByVideo(ctx, bvid, page)
	if err != nil {
		return nil, err
	}
	visible := s.scorer.Annotate(segments, nil)

	if err := s.cache.SetSegmentList(ctx, bvid, page, visible); err != nil {
		log.Printf("cache: segment list write error: %v", err)
	}
	return visible, nil
}

// ListBatch returns visible segments for many videos at once, keyed by bvid.
// Anonymous only; no user votes are attached.
func (s *SegmentService) ListBatch(ctx context.Context, bvids []string) (map[string][]model.SegmentResponse, error) {
	grouped, err := s.segments.ListByBVIDs(ctx, bvids)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]model.SegmentResponse, len(grouped))
	for bvid, segments := range grouped {
		result[bvid] = s.scorer.Annotate(segments, nil)
	}
	return result, nil
}

// Submit validates and persists a new segment, awarding the submission reward
// in the same transaction.
func (s *SegmentService) Submit(ctx context.Context, contributorID int64, req model.SubmitSegmentRequest) (*model.SubmitSegmentResponse, error) {
	if req.StartTime >= req.EndTime {
		return nil, apperr.Validation("start_time", "must be less than end_time")
	}
	if req.StartTime < 0 {
		return nil, apperr.Validation("start_time", "must not be negative")
	}
	if !model.ValidAdTypes[req.AdType] {
		return nil, apperr.Validation("ad_type", "must be one of: hard_ad, soft_ad, product_placement, intro_ad, mid_ad")
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	id, err := s.segments.Submit(ctx, contributorID, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateVideo(ctx, req.BVID); err != nil {
		log.Printf("cache: invalidate video error: %v", err)
	}

	return &model.SubmitSegmentResponse{ID: id, PointsEarned: repository.SubmitReward}, nil
}

// Delete deactivates a segment owned by the requester and drops the video's
// cached listings inline so the segment disappears from the very next List.
// Votes on the segment are left behind for the janitor.
func (s *SegmentService) Delete(ctx context.Context, requesterID, segmentID int64) error {
	bvid, err := s.segments.Deactivate(ctx, requesterID, segmentID)
	if err != nil {
		return err
	}

	if err := s.cache.InvalidateVideo(ctx, bvid); err != nil {
		log.Printf("cache: invalidate video error: %v", err)
	}
	return nil
}
