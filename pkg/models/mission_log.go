package models

import "time"

// MissionLog records one graded mission attempt reported to the backend
type MissionLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Sentence  string    `json:"sentence" db:"sentence"` // Korean text of the attempted phrase
	Result    string    `json:"result" db:"result"`     // "success" or "fail"
	Attempts  int       `json:"attempts" db:"attempts"` // Attempts used before this outcome
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Mission result values accepted by the ledger.
const (
	MissionResultSuccess = "success"
	MissionResultFail    = "fail"
)
