package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
)

type fakeSegmentStore struct {
	segments       []model.Segment
	deactivateBVID string
	deactivateErr  error
}

func (f *fakeSegmentStore) Submit(ctx context.Context, contributorID int64, req model.SubmitSegmentRequest) (int64, error) {
	return 1, nil
}

func (f *fakeSegmentStore) ListByVideo(ctx context.Context, bvid string, page int) ([]model.Segment, error) {
	return f.segments, nil
}

func (f *fakeSegmentStore) ListByBVIDs(ctx context.Context, bvids []string) (map[string][]model.Segment, error) {
	return map[string][]model.Segment{}, nil
}

func (f *fakeSegmentStore) Deactivate(ctx context.Context, requesterID, segmentID int64) (string, error) {
	return f.deactivateBVID, f.deactivateErr
}

type fakeVoteReader struct{}

func (fakeVoteReader) VotesForUser(ctx context.Context, userID int64, segmentIDs []int64) (map[int64]string, error) {
	return map[int64]string{}, nil
}

type fakeListCache struct {
	enabled     bool
	data        map[string][]byte
	invalidated []string
}

func (f *fakeListCache) Enabled() bool { return f.enabled }

func (f *fakeListCache) GetSegmentList(ctx context.Context, bvid string, page int) ([]byte, error) {
	return f.data[fmt.Sprintf("%s:%d", bvid, page)], nil
}

func (f *fakeListCache) SetSegmentList(ctx context.Context, bvid string, page int, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	f.data[fmt.Sprintf("%s:%d", bvid, page)] = b
	return nil
}

func (f *fakeListCache) InvalidateVideo(ctx context.Context, bvid string) error {
	f.invalidated = append(f.invalidated, bvid)
	return nil
}

func newTestSegmentService(store *fakeSegmentStore, cache *fakeListCache) *SegmentService {
	return &SegmentService{
		segments: store,
		votes:    fakeVoteReader{},
		scorer:   NewScoreService(),
		cache:    cache,
	}
}

func TestDelete_InvalidatesVideoCacheInline(t *testing.T) {
	store := &fakeSegmentStore{deactivateBVID: "BV1xx411c7mD"}
	cache := &fakeListCache{enabled: true}
	svc := newTestSegmentService(store, cache)

	if err := svc.Delete(context.Background(), 1, 42); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "BV1xx411c7mD" {
		t.Errorf("cache invalidations = %v, want the deleted segment's bvid", cache.invalidated)
	}
}

func TestDelete_NoInvalidationWhenDeactivateFails(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not owner", apperr.ErrForbidden},
		{"missing segment", apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &fakeListCache{enabled: true}
			svc := newTestSegmentService(&fakeSegmentStore{deactivateErr: tt.err}, cache)

			if err := svc.Delete(context.Background(), 1, 42); !errors.Is(err, tt.err) {
				t.Fatalf("Delete error = %v, want %v", err, tt.err)
			}
			if len(cache.invalidated) != 0 {
				t.Errorf("cache invalidated %v after a failed delete, want none", cache.invalidated)
			}
		})
	}
}

func TestList_CountsCacheMissThenHit(t *testing.T) {
	store := &fakeSegmentStore{segments: []model.Segment{
		{ID: 1, StartTime: 10, EndTime: 40, AdType: model.AdTypeHard},
	}}
	cache := &fakeListCache{enabled: true}
	svc := newTestSegmentService(store, cache)

	missesBefore := testutil.ToFloat64(cacheMisses)
	hitsBefore := testutil.ToFloat64(cacheHits)

	// Cold cache: miss, then the listing is written back.
	if _, err := svc.List(context.Background(), "BV1xx411c7mD", 1, nil); err != nil {
		t.Fatalf("List (cold) returned error: %v", err)
	}
	if got := testutil.ToFloat64(cacheMisses) - missesBefore; got != 1 {
		t.Errorf("cache misses after cold read = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cacheHits) - hitsBefore; got != 0 {
		t.Errorf("cache hits after cold read = %v, want 0", got)
	}

	// Warm cache: hit, no further miss.
	if _, err := svc.List(context.Background(), "BV1xx411c7mD", 1, nil); err != nil {
		t.Fatalf("List (warm) returned error: %v", err)
	}
	if got := testutil.ToFloat64(cacheHits) - hitsBefore; got != 1 {
		t.Errorf("cache hits after warm read = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cacheMisses) - missesBefore; got != 1 {
		t.Errorf("cache misses after warm read = %v, want 1", got)
	}
}

func TestList_NoMissCountedWhenCacheDisabled(t *testing.T) {
	store := &fakeSegmentStore{}
	svc := newTestSegmentService(store, &fakeListCache{enabled: false})

	missesBefore := testutil.ToFloat64(cacheMisses)
	if _, err := svc.List(context.Background(), "BV1xx411c7mD", 1, nil); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := testutil.ToFloat64(cacheMisses) - missesBefore; got != 0 {
		t.Errorf("cache misses with caching disabled = %v, want 0", got)
	}
}
