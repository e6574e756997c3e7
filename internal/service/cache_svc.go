package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// SegmentListTTL bounds how stale a cached segment list may get even if an
// invalidation is missed.
const SegmentListTTL = 5 * time.Minute

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adskipper_cache_hits_total",
		Help: "Total Redis cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adskipper_cache_misses_total",
		Help: "Total Redis cache misses.",
	})
)

// CacheService provides a Redis cache-aside layer for per-video segment
// listings. Only the anonymous portion of a listing is cached; the requester's
// own votes are always attached fresh.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client and every
// operation becomes a no-op.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Enabled reports whether a Redis connection is actually backing the cache.
func (c *CacheService) Enabled() bool {
	return c.rdb != nil
}

// GetSegmentList retrieves a cached listing. Returns nil when not cached or
// caching is disabled.
func (c *CacheService) GetSegmentList(ctx context.Context, bvid string, page int) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, segmentListKey(bvid, page)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetSegmentList stores a listing in cache.
func (c *CacheService) SetSegmentList(ctx context.Context, bvid string, page int, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, segmentListKey(bvid, page), b, SegmentListTTL).Err()
}

// InvalidateVideo removes every cached page of a video's listing. Called
// after vote changes, submissions and deletes.
func (c *CacheService) InvalidateVideo(ctx context.Context, bvid string) error {
	if c.rdb == nil {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("segments:%s:*", bvid), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func segmentListKey(bvid string, page int) string {
	return fmt.Sprintf("segments:%s:%d", bvid, page)
}
