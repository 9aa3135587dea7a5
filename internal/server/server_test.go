package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/pkg/models"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	require.NoError(t, database.ConnectSQLite(":memory:"))
	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})

	phrases := database.NewPhraseRepository()
	for _, p := range []models.Phrase{
		{Category: "인사", Korean: "안녕하세요"},
		{Category: "주문", Korean: "주문하시겠어요?"},
		{Category: "감사", Korean: "감사합니다"},
		{Category: "홀", Korean: "어서 오세요"},
		{Category: "주방", Korean: "양파 썰어주세요"},
	} {
		phrase := p
		require.NoError(t, phrases.Create(&phrase))
	}

	return New(Config{Addr: ":0", MissionsPerDay: 2, TestSize: 10}, nil)
}

func registerUser(t *testing.T, s *Server, name string) int64 {
	t.Helper()
	body := postJSON(t, s, "/api/register", map[string]any{
		"name":     name,
		"password": "1234",
		"branch":   "Gangnam",
	}, http.StatusOK)

	user := body["user"].(map[string]any)
	return int64(user["id"].(float64))
}

func doRequest(t *testing.T, s *Server, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func postJSON(t *testing.T, s *Server, path string, payload any, wantStatus int) map[string]any {
	t.Helper()
	resp, body := doRequest(t, s, http.MethodPost, path, payload)
	require.Equal(t, wantStatus, resp.StatusCode)
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "ramesh")
	assert.Greater(t, userID, int64(0))

	body := postJSON(t, s, "/api/login", map[string]any{"name": "ramesh", "password": "1234"}, http.StatusOK)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ramesh", user["name"])
	assert.Equal(t, float64(0), user["points"])

	postJSON(t, s, "/api/login", map[string]any{"name": "ramesh", "password": "wrong"}, http.StatusUnauthorized)
}

func TestTodayMissionsAreDeterministic(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "sita")

	path := "/api/missions/today?userId=" + strconv.FormatInt(userID, 10)
	resp, first := doRequest(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, second := doRequest(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, first["missions"], second["missions"])
	assert.Len(t, first["missions"].([]any), 2)
}

func TestMissionAttemptFlow(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "hari")

	sess, err := s.sessions.ForUser(userID)
	require.NoError(t, err)
	target := sess.Missions[0].Korean

	// Perfect attempt: completed, 150 points granted
	body := postJSON(t, s, "/api/missions/attempt", map[string]any{
		"userId":     userID,
		"sentence":   target,
		"transcript": target,
	}, http.StatusOK)
	result := body["result"].(map[string]any)
	assert.Equal(t, "success", result["outcome"])
	assert.Equal(t, float64(1), result["accuracy"])
	assert.Equal(t, float64(database.RewardAmount), result["points"])

	// Second mission completes but the daily reward is spent
	target2 := sess.Missions[1].Korean
	body = postJSON(t, s, "/api/missions/attempt", map[string]any{
		"userId":     userID,
		"sentence":   target2,
		"transcript": target2,
	}, http.StatusOK)
	result = body["result"].(map[string]any)
	assert.Equal(t, "success", result["outcome"])
	assert.Equal(t, float64(0), result["points"])

	// Unknown sentence is rejected
	postJSON(t, s, "/api/missions/attempt", map[string]any{
		"userId":     userID,
		"sentence":   "없는 문장",
		"transcript": "없는 문장",
	}, http.StatusNotFound)
}

func TestMissionResultAdvisoryEndpoint(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "gita")

	body := postJSON(t, s, "/api/mission/result", map[string]any{
		"userId":       userID,
		"sentence":     "안녕하세요",
		"result":       "success",
		"attemptsUsed": 1,
	}, http.StatusOK)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(database.RewardAmount), body["points"])

	// Same day, second success: no extra credit
	body = postJSON(t, s, "/api/mission/result", map[string]any{
		"userId":       userID,
		"sentence":     "감사합니다",
		"result":       "success",
		"attemptsUsed": 1,
	}, http.StatusOK)
	assert.Equal(t, "Already rewarded today", body["message"])
	assert.Equal(t, float64(0), body["points"])

	// Invalid verdicts are rejected
	postJSON(t, s, "/api/mission/result", map[string]any{
		"userId":   userID,
		"sentence": "안녕하세요",
		"result":   "maybe",
	}, http.StatusBadRequest)
}

func TestMonthlyTestGate(t *testing.T) {
	s := setupServer(t)

	s.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local) }
	resp, body := doRequest(t, s, http.MethodGet, "/api/test/monthly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["available"])

	s.now = func() time.Time { return time.Date(2026, 1, 31, 12, 0, 0, 0, time.Local) }
	resp, body = doRequest(t, s, http.MethodGet, "/api/test/monthly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "2026-01", body["month"])

	questions := body["questions"].([]any)
	assert.NotEmpty(t, questions)
	assert.LessOrEqual(t, len(questions), 10)
}

func TestTestResultEndpoint(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "maya")

	body := postJSON(t, s, "/api/test/result", map[string]any{
		"userId": userID,
		"score":  80,
		"result": "PASS",
		"month":  "2026-01",
	}, http.StatusOK)
	assert.Equal(t, true, body["success"])

	// Retake replaces the row
	postJSON(t, s, "/api/test/result", map[string]any{
		"userId": userID,
		"score":  50,
		"result": "FAIL",
		"month":  "2026-01",
	}, http.StatusOK)

	saved, err := database.NewTestResultRepository().GetByUserAndMonth(userID, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 50.0, saved.Score)

	postJSON(t, s, "/api/test/result", map[string]any{
		"userId": userID,
		"score":  120,
		"result": "PASS",
		"month":  "2026-02",
	}, http.StatusBadRequest)
}

func TestRankingsEndpoint(t *testing.T) {
	s := setupServer(t)
	userID := registerUser(t, s, "ramesh")

	postJSON(t, s, "/api/mission/result", map[string]any{
		"userId":       userID,
		"sentence":     "안녕하세요",
		"result":       "success",
		"attemptsUsed": 1,
	}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/rankings", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var rankings []models.BranchRanking
	require.NoError(t, json.Unmarshal(raw, &rankings))
	require.Len(t, rankings, 1)
	assert.Equal(t, "Gangnam", rankings[0].BranchName)
	assert.Equal(t, database.RewardAmount, rankings[0].TotalPoints)
}
