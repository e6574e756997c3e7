package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CacheWorker listens for PostgreSQL NOTIFY on the 'vote_changes' channel and
// batches cache invalidations. If 50 votes hit video X inside one window, the
// cached listing is dropped once, not 50 times.
type CacheWorker struct {
	pool    *pgxpool.Pool
	cache   *CacheService
	batchMs time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // bvids waiting for invalidation
}

// NewCacheWorker creates a cache invalidation worker.
func NewCacheWorker(pool *pgxpool.Pool, cache *CacheService) *CacheWorker {
	return &CacheWorker{
		pool:    pool,
		cache:   cache,
		batchMs: 5 * time.Second,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for vote_changes notifications and processing
// batches. It reconnects on listen errors until the context is cancelled.
func (w *CacheWorker) Start(ctx context.Context) {
	log.Printf("cache-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("cache-worker: stopping (context cancelled)")
				return
			}
			log.Printf("cache-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("cache-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on vote_changes, and
// collects notification payloads into the pending set.
func (w *CacheWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN vote_changes")
	if err != nil {
		return err
	}
	log.Println("cache-worker: listening on vote_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		bvid := notification.Payload
		if bvid == "" {
			continue
		}

		w.mu.Lock()
		w.pending[bvid] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set.
func (w *CacheWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and invalidates each video's cached listings.
func (w *CacheWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	invalidated := 0
	for bvid := range batch {
		if err := w.cache.InvalidateVideo(ctx, bvid); err != nil {
			log.Printf("cache-worker: invalidate error for %s: %v", bvid, err)
			continue
		}
		invalidated++
	}

	if invalidated > 0 {
		log.Printf("cache-worker: batch complete, %d videos invalidated", invalidated)
	}
}
