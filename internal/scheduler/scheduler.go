package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/monthlytest"
)

// SessionPurger drops cached practice sessions whose day has passed.
type SessionPurger interface {
	PurgeExpired() int
}

// Scheduler manages the recurring maintenance tasks of the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  SessionPurger
	log       *zap.Logger
}

// New creates a new scheduler instance
func New(sessions SessionPurger, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		sessions:  sessions,
		log:       log,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Sessions are keyed by date, so stale ones accumulate until purged
	s.scheduler.Every(1).Day().At("00:05").Do(s.purgeSessions)

	// Announce the monthly test window once per day
	s.scheduler.Every(1).Day().At("00:10").Do(s.checkTestWindow)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) purgeSessions() {
	if n := s.sessions.PurgeExpired(); n > 0 {
		s.log.Info("purged expired sessions", zap.Int("count", n))
	}
}

func (s *Scheduler) checkTestWindow() {
	now := time.Now()
	if monthlytest.IsLastDayOfMonth(now) {
		s.log.Info("monthly test window is open", zap.String("month", monthlytest.MonthKey(now)))
	}
}
