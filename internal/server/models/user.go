package models

import "time"

// User is the identity record behind every account. Password holds the
// bcrypt digest, never the plaintext. RefreshToken is the single currently
// valid refresh token for the account (nil when none is active); issuing a
// new one replaces the previous value. Avatar is nil until set.
//
// The JSON tags exist for the cache snapshot, which stores the full record;
// API responses use their own response types and never expose Password or
// RefreshToken.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Confirmed    bool      `json:"confirmed"`
	RefreshToken *string   `json:"refresh_token"`
	Avatar       *string   `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}
