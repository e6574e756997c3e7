package service

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TierWorker is a periodic background job that reconciles user_points.tier
// with the points thresholds. Rewards are granted inside write transactions;
// carrying the tier recomputation there would couple every vote to the
// reputation policy, so it runs here instead.
type TierWorker struct {
	pool     *pgxpool.Pool
	interval time.Duration
	stopCh   chan struct{}
}

// NewTierWorker creates a worker that ticks every interval.
func NewTierWorker(pool *pgxpool.Pool, interval time.Duration) *TierWorker {
	return &TierWorker{
		pool:     pool,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic reconciliation loop. It runs one tick
// immediately, then every interval.
func (w *TierWorker) Start(ctx context.Context) {
	log.Printf("tier-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("tier-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("tier-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *TierWorker) Stop() {
	close(w.stopCh)
}

// tick promotes every user whose points have crossed a threshold since the
// last run. A single statement; thresholds mirror TierForPoints.
func (w *TierWorker) tick(ctx context.Context) {
	start := time.Now()

	tag, err := w.pool.Exec(ctx, `
		UPDATE user_points SET tier = CASE
			WHEN total_points >= $1 THEN 'platinum'
			WHEN total_points >= $2 THEN 'gold'
			WHEN total_points >= $3 THEN 'silver'
			ELSE 'bronze'
		END
		WHERE tier <> CASE
			WHEN total_points >= $1 THEN 'platinum'
			WHEN total_points >= $2 THEN 'gold'
			WHEN total_points >= $3 THEN 'silver'
			ELSE 'bronze'
		END`, platinumPoints, goldPoints, silverPoints)
	if err != nil {
		log.Printf("tier-worker: error: %v", err)
		return
	}

	if tag.RowsAffected() > 0 {
		log.Printf("tier-worker: tick complete, %d tiers updated (%s)",
			tag.RowsAffected(), time.Since(start).Round(time.Millisecond))
	}
}
