package models

import "time"

// Contact is an address-book entry owned by a single user. Birthday keeps
// only the date part; timezone is irrelevant for the birthday queries.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  time.Time `json:"birthday"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
