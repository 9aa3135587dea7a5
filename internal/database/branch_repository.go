package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/phrasebot/pkg/models"
)

// BranchRepository handles database operations for branches
type BranchRepository struct{}

// NewBranchRepository creates a new repository instance
func NewBranchRepository() *BranchRepository {
	return &BranchRepository{}
}

// GetAll returns all branches
func (r *BranchRepository) GetAll() ([]models.Branch, error) {
	var branches []models.Branch
	err := DB.Select(&branches, "SELECT * FROM branches ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %v", err)
	}
	return branches, nil
}

// GetOrCreate returns the branch with the given name, creating it if needed
func (r *BranchRepository) GetOrCreate(name string) (*models.Branch, error) {
	query := "SELECT * FROM branches WHERE name = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var branch models.Branch
	err := DB.Get(&branch, query, name)
	if err == nil {
		return &branch, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get branch: %v", err)
	}

	if DB.DriverName() == "postgres" {
		err = DB.QueryRow(
			"INSERT INTO branches (name) VALUES ($1) RETURNING id, created_at",
			name,
		).Scan(&branch.ID, &branch.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create branch: %v", err)
		}
		branch.Name = name
		return &branch, nil
	}

	result, err := DB.Exec("INSERT INTO branches (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %v", err)
	}
	branch.ID = id
	branch.Name = name
	return &branch, nil
}

// Rankings returns total points per branch, highest first
func (r *BranchRepository) Rankings() ([]models.BranchRanking, error) {
	query := `
		SELECT b.name AS branch_name, SUM(u.points) AS total_points, COUNT(u.id) AS user_count
		FROM branches b
		JOIN users u ON b.id = u.branch_id
		GROUP BY b.id, b.name
		ORDER BY total_points DESC
	`
	var rankings []models.BranchRanking
	if err := DB.Select(&rankings, query); err != nil {
		return nil, fmt.Errorf("failed to get rankings: %v", err)
	}
	return rankings, nil
}
