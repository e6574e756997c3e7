package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
)

// VoteReward is the reputation granted for a user's first vote on a segment.
// Changing an existing vote's type never re-awards.
const VoteReward = 2

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// resolveVote decides the outcome of casting newType against the caller's
// existing vote on the same segment ("" when none exists):
//   - no prior vote: recorded, VoteReward granted
//   - prior vote of the same type: apperr.ErrDuplicateVote
//   - prior vote of a different type: updated, no reward
func resolveVote(existingType, newType string) (string, int, error) {
	switch {
	case existingType == "":
		return model.VoteResultRecorded, VoteReward, nil
	case existingType == newType:
		return "", 0, apperr.ErrDuplicateVote
	default:
		return model.VoteResultUpdated, 0, nil
	}
}

// CastVote records or mutates a user's vote on a segment as a single
// serializable transaction, per the resolveVote matrix. Returns the outcome,
// the points awarded, and the bvid of the segment's video so the caller can
// invalidate its cached listings.
//
// The (segment, user) pair is locked for the duration of the transaction so
// two concurrent casts can never double-award or lose an update.
func (r *VoteRepo) CastVote(ctx context.Context, segmentID, userID int64, voteType string) (string, int, string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return "", 0, "", err
	}
	defer tx.Rollback(ctx)

	// Lock the segment row; doubles as the existence check.
	var bvid string
	err = tx.QueryRow(ctx, `
		SELECT v.bvid
		FROM ad_segments s
		JOIN videos v ON v.id = s.video_id
		WHERE s.id = $1 AND s.is_active
		FOR UPDATE OF s`, segmentID).Scan(&bvid)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, "", apperr.ErrNotFound
	}
	if err != nil {
		return "", 0, "", err
	}

	var existingType string
	err = tx.QueryRow(ctx, `
		SELECT vote_type FROM segment_votes
		WHERE segment_id = $1 AND user_id = $2
		FOR UPDATE`, segmentID, userID).Scan(&existingType)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", 0, "", err
	}

	result, points, err := resolveVote(existingType, voteType)
	if err != nil {
		return "", 0, "", err
	}

	switch result {
	case model.VoteResultRecorded:
		_, err = tx.Exec(ctx, `
			INSERT INTO segment_votes (segment_id, user_id, vote_type)
			VALUES ($1, $2, $3)`, segmentID, userID, voteType)
		if err != nil {
			return "", 0, "", err
		}
		if err := adjustCounter(ctx, tx, segmentID, voteType, +1); err != nil {
			return "", 0, "", err
		}
		if err := awardPoints(ctx, tx, userID, points); err != nil {
			return "", 0, "", err
		}

	case model.VoteResultUpdated:
		_, err = tx.Exec(ctx, `
			UPDATE segment_votes SET vote_type = $1, updated_at = NOW()
			WHERE segment_id = $2 AND user_id = $3`, voteType, segmentID, userID)
		if err != nil {
			return "", 0, "", err
		}
		if err := adjustCounter(ctx, tx, segmentID, existingType, -1); err != nil {
			return "", 0, "", err
		}
		if err := adjustCounter(ctx, tx, segmentID, voteType, +1); err != nil {
			return "", 0, "", err
		}
	}

	// Wake the cache worker so stale listings also get swept when the
	// caller's own inline invalidation fails.
	if _, err := tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1)`, bvid); err != nil {
		return "", 0, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, "", err
	}
	return result, points, bvid, nil
}

// Stats returns the current vote tally for one active segment, plus the
// requester's own vote when a user id is supplied.
func (r *VoteRepo) Stats(ctx context.Context, segmentID int64, userID *int64) (*model.VoteStatsResponse, error) {
	var stats model.VoteStatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT up_votes, down_votes FROM ad_segments
		WHERE id = $1 AND is_active`, segmentID).Scan(&stats.UpVotes, &stats.DownVotes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	stats.Total = stats.UpVotes + stats.DownVotes

	if userID != nil {
		err = r.pool.QueryRow(ctx, `
			SELECT vote_type FROM segment_votes
			WHERE segment_id = $1 AND user_id = $2`, segmentID, *userID).Scan(&stats.UserVote)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return &stats, nil
}

// VotesForUser returns the requester's vote types keyed by segment id, for
// annotating a segment listing.
func (r *VoteRepo) VotesForUser(ctx context.Context, userID int64, segmentIDs []int64) (map[int64]string, error) {
	if len(segmentIDs) == 0 {
		return map[int64]string{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT segment_id, vote_type FROM segment_votes
		WHERE user_id = $1 AND segment_id = ANY($2)`, userID, segmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make(map[int64]string)
	for rows.Next() {
		var segID int64
		var voteType string
		if err := rows.Scan(&segID, &voteType); err != nil {
			return nil, err
		}
		votes[segID] = voteType
	}
	return votes, rows.Err()
}

// PruneOrphaned deletes votes whose segment has been deactivated. Called by
// the janitor, never inline with a delete.
func (r *VoteRepo) PruneOrphaned(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM segment_votes sv
		USING ad_segments s
		WHERE sv.segment_id = s.id AND NOT s.is_active`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// adjustCounter bumps the denormalized per-segment vote counter.
func adjustCounter(ctx context.Context, tx pgx.Tx, segmentID int64, voteType string, delta int) error {
	column := "up_votes"
	if voteType == model.VoteDown {
		column = "down_votes"
	}
	_, err := tx.Exec(ctx, `
		UPDATE ad_segments SET `+column+` = GREATEST(`+column+` + $1, 0)
		WHERE id = $2`, delta, segmentID)
	return err
}

// awardPoints upserts the user's reputation row. Points only ever increase.
func awardPoints(ctx context.Context, tx pgx.Tx, userID int64, points int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_points (user_id, total_points) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET total_points = user_points.total_points + EXCLUDED.total_points`,
		userID, points)
	return err
}
