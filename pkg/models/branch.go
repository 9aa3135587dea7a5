package models

import "time"

// Branch represents a restaurant location users belong to
type Branch struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BranchRanking aggregates points across a branch's users
type BranchRanking struct {
	BranchName  string `json:"branch_name" db:"branch_name"`
	TotalPoints int    `json:"total_points" db:"total_points"`
	UserCount   int    `json:"user_count" db:"user_count"`
}
