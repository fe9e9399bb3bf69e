package models

import "time"

// Reminder schedules a recurring digest of gifts for a holiday.
type Reminder struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Holiday   string    `json:"holiday"`
	CronExpr  string    `json:"cron_expr"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}
