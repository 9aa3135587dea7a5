package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// TestResultRepository handles database operations for monthly test results
type TestResultRepository struct{}

// NewTestResultRepository creates a new repository instance
func NewTestResultRepository() *TestResultRepository {
	return &TestResultRepository{}
}

// Save upserts the monthly test result: one row per (user, month), the
// latest sitting wins.
func (r *TestResultRepository) Save(result *models.TestResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now()
	}

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO test_results (user_id, month, score, result, taken_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, month) DO UPDATE SET
				score = EXCLUDED.score,
				result = EXCLUDED.result,
				taken_at = EXCLUDED.taken_at
			RETURNING id
		`
		return DB.QueryRow(
			query,
			result.UserID,
			result.Month,
			result.Score,
			result.Result,
			result.TakenAt,
		).Scan(&result.ID)
	}

	query := `
		INSERT OR REPLACE INTO test_results (user_id, month, score, result, taken_at)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := DB.Exec(query, result.UserID, result.Month, result.Score, result.Result, result.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to save test result: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	result.ID = id
	return nil
}

// GetByUserAndMonth returns the test result for a user in a "YYYY-MM" month
func (r *TestResultRepository) GetByUserAndMonth(userID int64, month string) (*models.TestResult, error) {
	query := "SELECT * FROM test_results WHERE user_id = ? AND month = ?"
	if DB.DriverName() == "postgres" {
		query = "SELECT * FROM test_results WHERE user_id = $1 AND month = $2"
	}

	var result models.TestResult
	if err := DB.Get(&result, query, userID, month); err != nil {
		return nil, fmt.Errorf("failed to get test result: %v", err)
	}
	return &result, nil
}

// GetByUser returns all test results for a user, newest first
func (r *TestResultRepository) GetByUser(userID int64) ([]models.TestResult, error) {
	query := "SELECT * FROM test_results WHERE user_id = ? ORDER BY month DESC"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var results []models.TestResult
	if err := DB.Select(&results, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get test results: %v", err)
	}
	return results, nil
}
