package models

import "time"

// DailyLog is the reward-ledger entry: at most one row per user per calendar
// date. Its existence is the sole gate against double-rewarding within a day.
type DailyLog struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	Date              string    `json:"date" db:"date"` // "YYYY-MM-DD", local calendar day
	AccumulatedPoints int       `json:"accumulated_points" db:"accumulated_points"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
