package service

import (
	"context"
	"log"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
	"github.com/adskipper/adskipper-go/internal/repository"
)

// voteLedger is the slice of the vote repository the service needs.
type voteLedger interface {
	CastVote(ctx context.Context, segmentID, userID int64, voteType string) (string, int, string, error)
	Stats(ctx context.Context, segmentID int64, userID *int64) (*model.VoteStatsResponse, error)
}

// videoInvalidator drops cached listings of one video.
type videoInvalidator interface {
	InvalidateVideo(ctx context.Context, bvid string) error
}

// VoteService handles vote casting and vote stats lookups.
type VoteService struct {
	repo  voteLedger
	cache videoInvalidator
}

func NewVoteService(repo *repository.VoteRepo, cache *CacheService) *VoteService {
	return &VoteService{repo: repo, cache: cache}
}

// Cast records or mutates the user's vote on a segment. The video's cached
// listings are invalidated inline so the next List reflects the new tally;
// the cache worker sweeps again off the vote_changes notification in case
// the inline invalidation fails.
func (s *VoteService) Cast(ctx context.Context, userID, segmentID int64, voteType string) (*model.CastVoteResponse, error) {
	if voteType != model.VoteUp && voteType != model.VoteDown {
		return nil, apperr.Validation("vote_type", "must be 'up' or 'down'")
	}

	result, points, bvid, err := s.repo.CastVote(ctx, segmentID, userID, voteType)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateVideo(ctx, bvid); err != nil {
		log.Printf("cache: invalidate video error: %v", err)
	}

	return &model.CastVoteResponse{Result: result, PointsEarned: points}, nil
}

// Stats returns a segment's vote tally with the requester's own vote attached
// when an identity is present.
func (s *VoteService) Stats(ctx context.Context, segmentID int64, userID *int64) (*model.VoteStatsResponse, error) {
	return s.repo.Stats(ctx, segmentID, userID)
}
