package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/phrasebot/internal/mission"
	"github.com/example/phrasebot/pkg/models"
)

// MissionLogRepository persists mission outcomes and owns the daily reward
// gate. It implements mission.Ledger.
type MissionLogRepository struct{}

// NewMissionLogRepository creates a new repository instance
func NewMissionLogRepository() *MissionLogRepository {
	return &MissionLogRepository{}
}

// LogMissionResult records a graded mission outcome and, for a success,
// applies the daily reward inside the same transaction. The reward is capped
// at one grant per user per calendar day: the existence check on daily_logs,
// the conditional insert and the point increment commit or roll back
// together, so two racing devices cannot double-credit.
//
// The mission-log row itself is always recorded, reward or not.
func (r *MissionLogRepository) LogMissionResult(ctx context.Context, userID int64, sentence, result string, attemptsUsed int) (mission.RewardReceipt, error) {
	return r.logMissionResultOn(ctx, userID, sentence, result, attemptsUsed, time.Now().Format(DateLayout))
}

func (r *MissionLogRepository) logMissionResultOn(ctx context.Context, userID int64, sentence, result string, attemptsUsed int, day string) (mission.RewardReceipt, error) {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	insertLog := "INSERT INTO mission_logs (user_id, sentence, result, attempts) VALUES (?, ?, ?, ?)"
	if DB.DriverName() == "postgres" {
		insertLog = "INSERT INTO mission_logs (user_id, sentence, result, attempts) VALUES ($1, $2, $3, $4)"
	}
	if _, err := tx.ExecContext(ctx, insertLog, userID, sentence, result, attemptsUsed); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to insert mission log: %v", err)
	}

	if result != models.MissionResultSuccess {
		if err := tx.Commit(); err != nil {
			return mission.RewardReceipt{}, fmt.Errorf("failed to commit mission log: %v", err)
		}
		return mission.RewardReceipt{}, nil
	}

	// Check if already rewarded today
	checkQuery := "SELECT COUNT(*) FROM daily_logs WHERE user_id = ? AND date = ?"
	if DB.DriverName() == "postgres" {
		checkQuery = "SELECT COUNT(*) FROM daily_logs WHERE user_id = $1 AND date = $2"
	}
	var existing int
	if err := tx.GetContext(ctx, &existing, checkQuery, userID, day); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to check daily log: %v", err)
	}

	if existing > 0 {
		// Mission-log row still counts; no further credit today
		if err := tx.Commit(); err != nil {
			return mission.RewardReceipt{}, fmt.Errorf("failed to commit mission log: %v", err)
		}
		return mission.RewardReceipt{Message: "Already rewarded today"}, nil
	}

	insertDaily := "INSERT INTO daily_logs (user_id, date, accumulated_points) VALUES (?, ?, ?)"
	if DB.DriverName() == "postgres" {
		insertDaily = "INSERT INTO daily_logs (user_id, date, accumulated_points) VALUES ($1, $2, $3)"
	}
	if _, err := tx.ExecContext(ctx, insertDaily, userID, day, RewardAmount); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to insert daily log: %v", err)
	}

	updatePoints := "UPDATE users SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if DB.DriverName() == "postgres" {
		updatePoints = "UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2"
	}
	if _, err := tx.ExecContext(ctx, updatePoints, RewardAmount, userID); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to update points: %v", err)
	}

	pointsQuery := "SELECT points FROM users WHERE id = ?"
	if DB.DriverName() == "postgres" {
		pointsQuery = "SELECT points FROM users WHERE id = $1"
	}
	var points int
	if err := tx.GetContext(ctx, &points, pointsQuery, userID); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to read updated points: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return mission.RewardReceipt{}, fmt.Errorf("failed to commit reward: %v", err)
	}

	return mission.RewardReceipt{
		Granted: true,
		Points:  points,
		Message: fmt.Sprintf("%d Points Rewarded!", RewardAmount),
	}, nil
}

// GetByUser returns a user's mission logs, newest first
func (r *MissionLogRepository) GetByUser(userID int64) ([]models.MissionLog, error) {
	query := "SELECT * FROM mission_logs WHERE user_id = ? ORDER BY created_at DESC"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var logs []models.MissionLog
	if err := DB.Select(&logs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get mission logs: %v", err)
	}
	return logs, nil
}

// HasRewardFor reports whether the user already has a daily-log row for the
// given day string.
func (r *MissionLogRepository) HasRewardFor(userID int64, day string) (bool, error) {
	query := "SELECT COUNT(*) FROM daily_logs WHERE user_id = ? AND date = ?"
	if DB.DriverName() == "postgres" {
		query = "SELECT COUNT(*) FROM daily_logs WHERE user_id = $1 AND date = $2"
	}

	var count int
	if err := DB.Get(&count, query, userID, day); err != nil {
		return false, fmt.Errorf("failed to check daily log: %v", err)
	}
	return count > 0, nil
}
