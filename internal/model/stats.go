package model

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	TotalUsers       int `json:"total_users"`
	TotalAnnotations int `json:"total_annotations"`
	TotalVotes       int `json:"total_votes"`
}

// TopUser is one entry of the highest-reputation-users listing.
type TopUser struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
}

// Contribution is one segment a user has submitted, joined with its video key.
type Contribution struct {
	ID        int64   `json:"id"`
	BVID      string  `json:"bvid"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	AdType    string  `json:"ad_type"`
	IsActive  bool    `json:"is_active"`
}

// ContributionsResponse is the paged listing of a user's submissions.
type ContributionsResponse struct {
	List     []Contribution `json:"list"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int            `json:"total"`
}
