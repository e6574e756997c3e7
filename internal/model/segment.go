package model

import "time"

// AdType enumerates the kinds of advertisement a segment can mark.
const (
	AdTypeHard             = "hard_ad"
	AdTypeSoft             = "soft_ad"
	AdTypeProductPlacement = "product_placement"
	AdTypeIntro            = "intro_ad"
	AdTypeMid              = "mid_ad"
)

// ValidAdTypes are the allowed ad_type values.
var ValidAdTypes = map[string]bool{
	AdTypeHard:             true,
	AdTypeSoft:             true,
	AdTypeProductPlacement: true,
	AdTypeIntro:            true,
	AdTypeMid:              true,
}

// Segment represents a claimed advertisement time range inside a video.
type Segment struct {
	ID            int64     `json:"id"`
	VideoID       int64     `json:"-"`
	StartTime     float64   `json:"start_time"`
	EndTime       float64   `json:"end_time"`
	AdType        string    `json:"ad_type"`
	ContributorID int64     `json:"contributor_id"`
	IsActive      bool      `json:"-"`
	UpVotes       int       `json:"-"`
	DownVotes     int       `json:"-"`
	CreatedAt     time.Time `json:"-"`
}

// SubmitSegmentRequest is the API request body for creating a segment.
type SubmitSegmentRequest struct {
	BVID      string  `json:"bvid"`
	CID       *int64  `json:"cid,omitempty"`
	Page      int     `json:"page"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	AdType    string  `json:"ad_type"`
}

// SubmitSegmentResponse is returned after a successful submission.
type SubmitSegmentResponse struct {
	ID           int64 `json:"id"`
	PointsEarned int   `json:"points_earned"`
}

// SegmentResponse is one entry of a segment listing: the persisted segment
// annotated with its vote counts, Wilson score and the requester's own vote.
type SegmentResponse struct {
	ID          int64   `json:"id"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	AdType      string  `json:"ad_type"`
	UpVotes     int     `json:"upvotes"`
	DownVotes   int     `json:"downvotes"`
	WilsonScore float64 `json:"wilson_score"`
	UserVote    string  `json:"user_vote,omitempty"`
}

// BatchSegmentsRequest is the API request body for a multi-video lookup.
type BatchSegmentsRequest struct {
	BVIDs []string `json:"bvids"`
}
