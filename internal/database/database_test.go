package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasebot/pkg/models"
)

// setupDB points the package at a fresh in-memory SQLite database
func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, ConnectSQLite(":memory:"))
	t.Cleanup(func() {
		Close()
		DB = nil
	})
}

func createTestUser(t *testing.T, name string) *models.User {
	t.Helper()
	branch, err := NewBranchRepository().GetOrCreate("Gangnam")
	require.NoError(t, err)

	user := &models.User{Name: name, Password: "1234", BranchID: branch.ID}
	require.NoError(t, NewUserRepository().Create(user))
	return user
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository()
	user := createTestUser(t, "ramesh")

	got, err := repo.Authenticate("ramesh", "1234")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Zero(t, got.Points)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())

	_, err = repo.Authenticate("ramesh", "wrong")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = repo.Authenticate("nobody", "1234")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestPhraseCatalogStableOrder(t *testing.T) {
	setupDB(t)
	repo := NewPhraseRepository()

	for _, korean := range []string{"안녕하세요", "주문하시겠어요?", "감사합니다"} {
		require.NoError(t, repo.Create(&models.Phrase{Category: "Daily", Korean: korean}))
	}

	first, err := repo.Catalog()
	require.NoError(t, err)
	second, err := repo.Catalog()
	require.NoError(t, err)
	require.Equal(t, first, second, "catalog order must be stable between reads")
	require.Len(t, first, 3)
	assert.Equal(t, "안녕하세요", first[0].Korean)
	assert.Greater(t, first[0].ID, 0, "every phrase gets a synthetic ID")
}

func TestPhraseCategoriesAndTextFallback(t *testing.T) {
	setupDB(t)
	repo := NewPhraseRepository()

	require.NoError(t, repo.Create(&models.Phrase{Category: "Hall", Korean: "어서 오세요"}))
	require.NoError(t, repo.Create(&models.Phrase{Category: "Kitchen", Korean: "양파 썰어주세요"}))
	require.NoError(t, repo.Create(&models.Phrase{Category: "Kitchen", Korean: "어서 오세요"}))

	categories, err := repo.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hall", "Kitchen"}, categories)

	// Identical Korean text in two categories: IDs disambiguate, text lookup
	// returns both
	matches, err := repo.FindByText("어서 오세요")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.NotEqual(t, matches[0].ID, matches[1].ID)
}

func TestLogMissionResultGrantsOncePerDay(t *testing.T) {
	setupDB(t)
	repo := NewMissionLogRepository()
	user := createTestUser(t, "sita")
	ctx := context.Background()

	// First completion of the day: 150 points
	receipt, err := repo.logMissionResultOn(ctx, user.ID, "안녕하세요", models.MissionResultSuccess, 1, "2026-01-03")
	require.NoError(t, err)
	assert.True(t, receipt.Granted)
	assert.Equal(t, RewardAmount, receipt.Points)

	points, err := NewUserRepository().GetPoints(user.ID)
	require.NoError(t, err)
	assert.Equal(t, RewardAmount, points)

	// Second distinct mission the same day: logged, no further credit
	receipt, err = repo.logMissionResultOn(ctx, user.ID, "주문하시겠어요?", models.MissionResultSuccess, 2, "2026-01-03")
	require.NoError(t, err)
	assert.False(t, receipt.Granted)
	assert.Equal(t, "Already rewarded today", receipt.Message)

	points, err = NewUserRepository().GetPoints(user.ID)
	require.NoError(t, err)
	assert.Equal(t, RewardAmount, points, "balance unchanged after second completion")

	// Next day the gate opens again
	receipt, err = repo.logMissionResultOn(ctx, user.ID, "안녕하세요", models.MissionResultSuccess, 1, "2026-01-04")
	require.NoError(t, err)
	assert.True(t, receipt.Granted)
	assert.Equal(t, 2*RewardAmount, receipt.Points)

	logs, err := repo.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3, "every outcome is logged regardless of reward")
}

func TestLogMissionResultFailDoesNotReward(t *testing.T) {
	setupDB(t)
	repo := NewMissionLogRepository()
	user := createTestUser(t, "hari")
	ctx := context.Background()

	receipt, err := repo.logMissionResultOn(ctx, user.ID, "감사합니다", models.MissionResultFail, 2, "2026-01-03")
	require.NoError(t, err)
	assert.False(t, receipt.Granted)

	rewarded, err := repo.HasRewardFor(user.ID, "2026-01-03")
	require.NoError(t, err)
	assert.False(t, rewarded)

	logs, err := repo.GetByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.MissionResultFail, logs[0].Result)
	assert.Equal(t, 2, logs[0].Attempts)
}

func TestTestResultUpsertOneRowPerMonth(t *testing.T) {
	setupDB(t)
	repo := NewTestResultRepository()
	user := createTestUser(t, "gita")

	first := &models.TestResult{UserID: user.ID, Month: "2026-01", Score: 60, Result: models.TestResultFail}
	require.NoError(t, repo.Save(first))

	// Retaking the test in the same month replaces the row
	second := &models.TestResult{UserID: user.ID, Month: "2026-01", Score: 90, Result: models.TestResultPass}
	require.NoError(t, repo.Save(second))

	got, err := repo.GetByUserAndMonth(user.ID, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Score)
	assert.Equal(t, models.TestResultPass, got.Result)

	all, err := repo.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBranchRankings(t *testing.T) {
	setupDB(t)
	branchRepo := NewBranchRepository()
	userRepo := NewUserRepository()
	missionRepo := NewMissionLogRepository()
	ctx := context.Background()

	north, err := branchRepo.GetOrCreate("North")
	require.NoError(t, err)
	south, err := branchRepo.GetOrCreate("South")
	require.NoError(t, err)

	u1 := &models.User{Name: "a", Password: "x", BranchID: north.ID}
	require.NoError(t, userRepo.Create(u1))
	u2 := &models.User{Name: "b", Password: "x", BranchID: south.ID}
	require.NoError(t, userRepo.Create(u2))
	u3 := &models.User{Name: "c", Password: "x", BranchID: south.ID}
	require.NoError(t, userRepo.Create(u3))

	// South earns two daily rewards (different users), North none
	_, err = missionRepo.logMissionResultOn(ctx, u2.ID, "안녕하세요", models.MissionResultSuccess, 1, "2026-01-03")
	require.NoError(t, err)
	_, err = missionRepo.logMissionResultOn(ctx, u3.ID, "안녕하세요", models.MissionResultSuccess, 1, "2026-01-03")
	require.NoError(t, err)

	rankings, err := branchRepo.Rankings()
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "South", rankings[0].BranchName)
	assert.Equal(t, 2*RewardAmount, rankings[0].TotalPoints)
	assert.Equal(t, 2, rankings[0].UserCount)
	assert.Equal(t, "North", rankings[1].BranchName)
	assert.Zero(t, rankings[1].TotalPoints)
}
