package model

import "time"

// User is a registered contributor identity.
type User struct {
	ID           int64     `json:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Reputation is a user's points ledger. Points only ever increase; the tier is
// derived from the total and reconciled by the tier worker.
type Reputation struct {
	UserID      int64  `json:"-"`
	TotalPoints int    `json:"points"`
	Tier        string `json:"tier"`
}

// RegisterRequest is the API request body for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the API request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the bearer token along with the user's reputation.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Tier     string `json:"tier"`
}

// MeResponse is the API response for the current-user endpoint.
type MeResponse struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
	Tier     string `json:"tier"`
}
