package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
)

// SubmitReward is the reputation granted for contributing a segment, awarded
// in the same transaction as the insert.
const SubmitReward = 10

type SegmentRepo struct {
	pool *pgxpool.Pool
}

func NewSegmentRepo(pool *pgxpool.Pool) *SegmentRepo {
	return &SegmentRepo{pool: pool}
}

// Submit inserts an active segment for the given contributor, resolving the
// video by find-or-create on (bvid, page) and awarding SubmitReward, all in
// one serializable transaction. Time-range validation happens in the service
// before this is called; the schema CHECK is the final guard.
func (r *SegmentRepo) Submit(ctx context.Context, contributorID int64, req model.SubmitSegmentRequest) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Find-or-create the video. The no-op DO UPDATE makes RETURNING yield the
	// id on both paths while backfilling cid if it was unknown.
	var videoID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO videos (bvid, cid, page) VALUES ($1, $2, $3)
		ON CONFLICT (bvid, page) DO UPDATE
		SET cid = COALESCE(videos.cid, EXCLUDED.cid)
		RETURNING id`, req.BVID, req.CID, req.Page).Scan(&videoID)
	if err != nil {
		return 0, err
	}

	var segmentID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO ad_segments (video_id, start_time, end_time, ad_type, contributor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id`, videoID, req.StartTime, req.EndTime, req.AdType, contributorID).Scan(&segmentID)
	if err != nil {
		return 0, err
	}

	if err := awardPoints(ctx, tx, contributorID, SubmitReward); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1)`, req.BVID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return segmentID, nil
}

// ListByVideo returns all active segments of one video page with their
// denormalized vote counts. An unknown bvid yields an empty slice.
func (r *SegmentRepo) ListByVideo(ctx context.Context, bvid string, page int) ([]model.Segment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.video_id, s.start_time, s.end_time, s.ad_type,
		       s.contributor_id, s.up_votes, s.down_votes, s.created_at
		FROM ad_segments s
		JOIN videos v ON v.id = s.video_id
		WHERE v.bvid = $1 AND v.page = $2 AND s.is_active`, bvid, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSegments(rows)
}

// ListByBVIDs returns active segments for many videos in one query, grouped
// by bvid. All pages of each video are included.
func (r *SegmentRepo) ListByBVIDs(ctx context.Context, bvids []string) (map[string][]model.Segment, error) {
	result := make(map[string][]model.Segment, len(bvids))
	for _, bvid := range bvids {
		result[bvid] = []model.Segment{}
	}
	if len(bvids) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT v.bvid, s.id, s.video_id, s.start_time, s.end_time, s.ad_type,
		       s.contributor_id, s.up_votes, s.down_votes, s.created_at
		FROM ad_segments s
		JOIN videos v ON v.id = s.video_id
		WHERE v.bvid = ANY($1) AND s.is_active`, bvids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bvid string
		var s model.Segment
		err := rows.Scan(&bvid, &s.ID, &s.VideoID, &s.StartTime, &s.EndTime, &s.AdType,
			&s.ContributorID, &s.UpVotes, &s.DownVotes, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		s.IsActive = true
		result[bvid] = append(result[bvid], s)
	}
	return result, rows.Err()
}

// Deactivate soft-deletes a segment after checking ownership and returns the
// bvid of its video so the caller can invalidate cached listings. Inactive
// and missing segments are indistinguishable to the caller.
func (r *SegmentRepo) Deactivate(ctx context.Context, requesterID, segmentID int64) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var contributorID int64
	var isActive bool
	var bvid string
	err = tx.QueryRow(ctx, `
		SELECT s.contributor_id, s.is_active, v.bvid
		FROM ad_segments s
		JOIN videos v ON v.id = s.video_id
		WHERE s.id = $1
		FOR UPDATE OF s`, segmentID).Scan(&contributorID, &isActive, &bvid)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !isActive {
		return "", apperr.ErrNotFound
	}
	if contributorID != requesterID {
		return "", apperr.ErrForbidden
	}

	if _, err := tx.Exec(ctx, `UPDATE ad_segments SET is_active = FALSE WHERE id = $1`, segmentID); err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1)`, bvid); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return bvid, nil
}

func scanSegments(rows pgx.Rows) ([]model.Segment, error) {
	var segments []model.Segment
	for rows.Next() {
		var s model.Segment
		err := rows.Scan(&s.ID, &s.VideoID, &s.StartTime, &s.EndTime, &s.AdType,
			&s.ContributorID, &s.UpVotes, &s.DownVotes, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		s.IsActive = true
		segments = append(segments, s)
	}
	return segments, rows.Err()
}
