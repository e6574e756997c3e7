package model

import "time"

// Vote types.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote ties one user to one segment. At most one row exists per
// (segment, user) pair; re-voting with a different type mutates it in place.
type Vote struct {
	SegmentID int64     `json:"segment_id"`
	UserID    int64     `json:"-"`
	VoteType  string    `json:"vote_type"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// CastVoteRequest is the API request body for voting on a segment.
type CastVoteRequest struct {
	VoteType string `json:"vote_type"`
}

// Vote cast results.
const (
	VoteResultRecorded = "recorded"
	VoteResultUpdated  = "updated"
)

// CastVoteResponse reports what happened to the vote and whether the caller
// earned reputation for it. PointsEarned is non-zero only for first votes.
type CastVoteResponse struct {
	Result       string `json:"result"`
	PointsEarned int    `json:"points_earned"`
}

// VoteStatsResponse is the API response for a segment's vote tally.
type VoteStatsResponse struct {
	UpVotes   int    `json:"upvotes"`
	DownVotes int    `json:"downvotes"`
	Total     int    `json:"total"`
	UserVote  string `json:"user_vote,omitempty"`
}
