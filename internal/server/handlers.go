package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/monthlytest"
	"github.com/example/phrasebot/internal/session"
	"github.com/example/phrasebot/pkg/models"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.SendString("Phrasebot Server is Running")
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	user, err := s.users.Authenticate(req.Name, req.Password)
	if errors.Is(err, database.ErrInvalidLogin) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}
	if err != nil {
		s.log.Error("login failed", zap.String("name", req.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"points":    user.Points,
			"branch_id": user.BranchID,
		},
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	BranchID int64  `json:"branch_id"`
	Branch   string `json:"branch"` // alternative to branch_id: create/look up by name
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if req.Name == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "name and password are required"})
	}

	branchID := req.BranchID
	if branchID == 0 && req.Branch != "" {
		branch, err := s.branches.GetOrCreate(req.Branch)
		if err != nil {
			s.log.Error("branch lookup failed", zap.String("branch", req.Branch), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Registration failed"})
		}
		branchID = branch.ID
	}

	user := &models.User{Name: req.Name, Password: req.Password, BranchID: branchID}
	if err := s.users.Create(user); err != nil {
		s.log.Error("registration failed", zap.String("name", req.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Registration failed"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    fiber.Map{"id": user.ID, "name": user.Name},
	})
}

func (s *Server) handlePhrases(c *fiber.Ctx) error {
	category := c.Query("category")

	var (
		phrases []models.Phrase
		err     error
	)
	if category == "" || category == "All" {
		phrases, err = s.phrases.Catalog()
	} else {
		phrases, err = s.phrases.GetByCategory(category)
	}
	if err != nil {
		s.log.Error("phrase listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(phrases)
}

func (s *Server) handleCategories(c *fiber.Ctx) error {
	categories, err := s.phrases.Categories()
	if err != nil {
		s.log.Error("category listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}
	return c.JSON(categories)
}

func (s *Server) handleTodayMissions(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "userId is required"})
	}

	sess, err := s.sessions.ForUser(userID)
	if err != nil {
		s.log.Error("session derivation failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{
		"date":     sess.Date,
		"missions": sess.Statuses(),
	})
}

type attemptRequest struct {
	UserID     int64  `json:"userId"`
	Sentence   string `json:"sentence"`
	Transcript string `json:"transcript"`
}

// handleMissionAttempt grades a finalized transcript server-side and applies
// the mission state machine.
func (s *Server) handleMissionAttempt(c *fiber.Ctx) error {
	var req attemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if req.UserID <= 0 || req.Sentence == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "userId and sentence are required"})
	}

	sess, err := s.sessions.ForUser(req.UserID)
	if err != nil {
		s.log.Error("session derivation failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	result, err := sess.Attempt(c.Context(), req.Sentence, req.Transcript)
	switch {
	case errors.Is(err, session.ErrAttemptInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, session.ErrUnknownPhrase):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case err != nil:
		s.log.Error("attempt failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

type missionResultRequest struct {
	UserID       int64  `json:"userId"`
	Sentence     string `json:"sentence"`
	Result       string `json:"result"`
	AttemptsUsed int    `json:"attemptsUsed"`
}

// handleMissionResult accepts a client-graded outcome. The verdict is
// advisory, but the reward gate is applied server-side either way.
func (s *Server) handleMissionResult(c *fiber.Ctx) error {
	var req missionResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if req.UserID <= 0 || req.Sentence == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "userId and sentence are required"})
	}
	if req.Result != models.MissionResultSuccess && req.Result != models.MissionResultFail {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "result must be success or fail"})
	}

	receipt, err := s.missions.LogMissionResult(c.Context(), req.UserID, req.Sentence, req.Result, req.AttemptsUsed)
	if err != nil {
		s.log.Error("mission result logging failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Reward processing failed"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"points":  receipt.Points,
		"message": receipt.Message,
	})
}

func (s *Server) handleMonthlyTest(c *fiber.Ctx) error {
	now := s.now()
	if !monthlytest.IsLastDayOfMonth(now) {
		return c.JSON(fiber.Map{
			"available": false,
			"month":     monthlytest.MonthKey(now),
		})
	}

	catalog, err := s.phrases.Catalog()
	if err != nil {
		s.log.Error("catalog read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	assembler := monthlytest.New(catalog, s.cfg.MissionsPerDay, s.log)
	pool := assembler.BuildPool(now)
	questions := assembler.SampleTest(pool, s.cfg.TestSize)

	return c.JSON(fiber.Map{
		"available": true,
		"month":     monthlytest.MonthKey(now),
		"questions": questions,
	})
}

type testResultRequest struct {
	UserID int64   `json:"userId"`
	Score  float64 `json:"score"`
	Result string  `json:"result"`
	Month  string  `json:"month"`
}

func (s *Server) handleTestResult(c *fiber.Ctx) error {
	var req testResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if req.UserID <= 0 || req.Month == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "userId and month are required"})
	}
	if req.Result != models.TestResultPass && req.Result != models.TestResultFail {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "result must be PASS or FAIL"})
	}
	if req.Score < 0 || req.Score > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "score must be between 0 and 100"})
	}

	result := &models.TestResult{
		UserID: req.UserID,
		Month:  req.Month,
		Score:  req.Score,
		Result: req.Result,
	}
	if err := s.tests.Save(result); err != nil {
		s.log.Error("test result save failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleRankings(c *fiber.Ctx) error {
	rankings, err := s.branches.Rankings()
	if err != nil {
		s.log.Error("rankings query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}
	return c.JSON(rankings)
}
