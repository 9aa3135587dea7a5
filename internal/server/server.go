// Package server exposes the practice backend over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/session"
)

// Server wires the repositories, the session manager and the HTTP routes
type Server struct {
	app      *fiber.App
	cfg      Config
	log      *zap.Logger
	users    *database.UserRepository
	branches *database.BranchRepository
	phrases  *database.PhraseRepository
	missions *database.MissionLogRepository
	tests    *database.TestResultRepository
	sessions *session.Manager
	now      func() time.Time
}

// New creates the server and registers all routes
func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	phrases := database.NewPhraseRepository()
	missions := database.NewMissionLogRepository()

	s := &Server{
		app:      fiber.New(),
		cfg:      cfg,
		log:      log,
		users:    database.NewUserRepository(),
		branches: database.NewBranchRepository(),
		phrases:  phrases,
		missions: missions,
		tests:    database.NewTestResultRepository(),
		sessions: session.NewManager(phrases, missions, cfg.MissionsPerDay, log),
		now:      time.Now,
	}

	s.app.Use(cors.New())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleHealth)

	api := s.app.Group("/api")
	api.Post("/login", s.handleLogin)
	api.Post("/register", s.handleRegister)

	api.Get("/phrases", s.handlePhrases)
	api.Get("/categories", s.handleCategories)

	api.Get("/missions/today", s.handleTodayMissions)
	api.Post("/missions/attempt", s.handleMissionAttempt)
	api.Post("/mission/result", s.handleMissionResult)

	api.Get("/test/monthly", s.handleMonthlyTest)
	api.Post("/test/result", s.handleTestResult)

	api.Get("/rankings", s.handleRankings)
}

// App exposes the fiber application, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Sessions exposes the session manager for the maintenance scheduler
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Listen blocks serving HTTP on the configured address
func (s *Server) Listen() error {
	s.log.Info("server listening", zap.String("addr", s.cfg.Addr))
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// ShutdownWithContext gracefully stops the server, bounded by ctx
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
