package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a user and seeds their empty reputation row.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, password_hash) VALUES ($1, $2)
		RETURNING id`, username, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, apperr.ErrUsernameTaken
		}
		return 0, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_points (user_id) VALUES ($1)`, userID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return userID, nil
}

// FindByUsername returns a single user by their login name.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at FROM users
		WHERE username = $1`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetReputation returns the user's points ledger, defaulting to an empty
// bronze ledger when no row exists yet.
func (r *UserRepo) GetReputation(ctx context.Context, userID int64) (*model.Reputation, error) {
	rep := model.Reputation{UserID: userID, Tier: "bronze"}
	err := r.pool.QueryRow(ctx, `
		SELECT total_points, tier FROM user_points
		WHERE user_id = $1`, userID).Scan(&rep.TotalPoints, &rep.Tier)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return &rep, nil
}

// GetStats returns aggregate counts across all tables.
func (r *UserRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM ad_segments WHERE is_active) AS total_annotations,
			(SELECT COUNT(*) FROM segment_votes) AS total_votes`).Scan(
		&stats.TotalUsers, &stats.TotalAnnotations, &stats.TotalVotes)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// TopUsers returns the highest-reputation users, most points first.
func (r *UserRepo) TopUsers(ctx context.Context, limit int) ([]model.TopUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, up.total_points
		FROM users u
		JOIN user_points up ON up.user_id = u.id
		ORDER BY up.total_points DESC, u.id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.TopUser{}
	for rows.Next() {
		var u model.TopUser
		if err := rows.Scan(&u.ID, &u.Username, &u.TotalPoints); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PopularVideos returns the most-annotated videos.
func (r *UserRepo) PopularVideos(ctx context.Context, limit int) ([]model.PopularVideo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.bvid, COUNT(s.id) AS annotation_count
		FROM videos v
		LEFT JOIN ad_segments s ON s.video_id = v.id AND s.is_active
		GROUP BY v.bvid
		ORDER BY annotation_count DESC, v.bvid ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.PopularVideo{}
	for rows.Next() {
		var v model.PopularVideo
		if err := rows.Scan(&v.BVID, &v.AnnotationCount); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Contributions returns one page of a user's submitted segments, newest first.
func (r *UserRepo) Contributions(ctx context.Context, userID int64, page, pageSize int) (*model.ContributionsResponse, error) {
	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, v.bvid, s.start_time, s.end_time, s.ad_type, s.is_active
		FROM ad_segments s
		JOIN videos v ON v.id = s.video_id
		WHERE s.contributor_id = $1
		ORDER BY s.id DESC
		LIMIT $2 OFFSET $3`, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resp := model.ContributionsResponse{List: []model.Contribution{}, Page: page, PageSize: pageSize}
	for rows.Next() {
		var c model.Contribution
		if err := rows.Scan(&c.ID, &c.BVID, &c.StartTime, &c.EndTime, &c.AdType, &c.IsActive); err != nil {
			return nil, err
		}
		resp.List = append(resp.List, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM ad_segments WHERE contributor_id = $1`, userID).Scan(&resp.Total)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
