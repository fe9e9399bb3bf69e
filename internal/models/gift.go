package models

import "time"

// Gift is one registry item. Price ranges are free-form strings (e.g. "$0-$20")
// rather than amounts, matching how the catalog is curated.
type Gift struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Holiday     string    `json:"holiday"`
	Recipient   string    `json:"recipient"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

// Carousel is the preview assembled for a holiday/recipient combination.
type Carousel struct {
	Holiday   string `json:"holiday"`
	Recipient string `json:"recipient"`
	Gifts     []Gift `json:"gifts"`
}
