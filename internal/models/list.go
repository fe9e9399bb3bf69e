package models

import "time"

// List is a user-owned collection of gifts (e.g. "Dad", "Office party").
type List struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Gifts     []Gift    `json:"gifts"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is the full view of a user's registry: the user plus their lists
// with gifts embedded. It is derived on read, never stored.
type Account struct {
	User  User   `json:"user"`
	Lists []List `json:"lists"`
}
