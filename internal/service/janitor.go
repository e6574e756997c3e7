package service

import (
	"context"
	"log"
	"time"

	"github.com/adskipper/adskipper-go/internal/repository"
)

// Janitor periodically prunes votes orphaned by soft-deleted segments.
// Deletion never cleans up votes inline; the loop keeps the vote table from
// accumulating dead rows without slowing down the delete path.
type Janitor struct {
	votes    *repository.VoteRepo
	interval time.Duration
}

func NewJanitor(votes *repository.VoteRepo, interval time.Duration) *Janitor {
	return &Janitor{votes: votes, interval: interval}
}

// Start runs the pruning loop until the context is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	log.Printf("janitor: starting (interval=%s)", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pruned, err := j.votes.PruneOrphaned(ctx)
			if err != nil {
				log.Printf("janitor: prune error: %v", err)
				continue
			}
			if pruned > 0 {
				log.Printf("janitor: pruned %d orphaned votes", pruned)
			}
		case <-ctx.Done():
			log.Println("janitor: stopping (context cancelled)")
			return
		}
	}
}
