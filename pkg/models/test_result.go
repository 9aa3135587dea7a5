package models

import "time"

// TestResult records a monthly review test outcome, one row per (user, month)
type TestResult struct {
	ID      int64     `json:"id" db:"id"`
	UserID  int64     `json:"user_id" db:"user_id"`
	Month   string    `json:"month" db:"month"` // "YYYY-MM"
	Score   float64   `json:"score" db:"score"` // 0-100
	Result  string    `json:"result" db:"result"`
	TakenAt time.Time `json:"taken_at" db:"taken_at"`
}

// Monthly test verdicts.
const (
	TestResultPass = "PASS"
	TestResultFail = "FAIL"
)
