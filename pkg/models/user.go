package models

import "time"

// User represents a staff member practicing phrases
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password"` // stored as-is, see UserRepository.Authenticate
	BranchID  int64     `json:"branch_id" db:"branch_id"`
	Points    int       `json:"points" db:"points"` // Cumulative reward balance, never decreases
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
