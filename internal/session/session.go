// Package session holds the per-user practice state for the current day:
// created on first use, recomputed when the day rolls over, discarded
// when purged.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/mission"
	"github.com/example/phrasebot/pkg/models"
)

// ErrAttemptInFlight is returned when a second capture/grading cycle starts
// while one is still active. The design is a busy flag, not a queue.
var ErrAttemptInFlight = errors.New("an attempt is already in progress")

// ErrUnknownPhrase is returned for attempts on phrases outside today's set.
var ErrUnknownPhrase = errors.New("phrase is not part of today's missions")

// Session is one user's mission state for one calendar day.
type Session struct {
	ID       string
	UserID   int64
	Date     string // day-seed string this session was built for
	Missions []models.Phrase
	Tracker  *mission.Tracker

	mu       sync.Mutex // guards inFlight
	inFlight bool

	trackerMu sync.Mutex // guards all Tracker access
}

// Attempt runs a single graded attempt through the tracker. Only one attempt
// may be in flight at a time; concurrent calls get ErrAttemptInFlight.
func (s *Session) Attempt(ctx context.Context, korean, transcript string) (mission.AttemptResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return mission.AttemptResult{}, ErrAttemptInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	for _, p := range s.Missions {
		if p.Korean == korean {
			s.trackerMu.Lock()
			defer s.trackerMu.Unlock()
			return s.Tracker.RecordAttempt(ctx, p, transcript)
		}
	}
	return mission.AttemptResult{}, ErrUnknownPhrase
}

// Statuses returns the day's mission statuses in selection order. The copy
// is taken under the tracker lock so a status never reflects a half-applied
// attempt.
func (s *Session) Statuses() []mission.Status {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()
	return s.Tracker.Statuses()
}

// CatalogSource supplies the ordered phrase catalog sessions derive
// missions from.
type CatalogSource interface {
	Catalog() ([]models.Phrase, error)
}

// Manager creates and caches sessions, one per user, keyed to the current
// day. Safe for concurrent use.
type Manager struct {
	catalog CatalogSource
	ledger  mission.Ledger
	count   int
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates a session manager deriving count missions per day.
func NewManager(catalog CatalogSource, ledger mission.Ledger, count int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		catalog:  catalog,
		ledger:   ledger,
		count:    count,
		log:      log,
		now:      time.Now,
		sessions: make(map[int64]*Session),
	}
}

// ForUser returns the user's session for today, deriving the mission set on
// first use. A session built for an earlier date is recomputed, not reused.
func (m *Manager) ForUser(userID int64) (*Session, error) {
	today := mission.DaySeed(m.now())

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok && s.Date == today {
		return s, nil
	}

	catalog, err := m.catalog.Catalog()
	if err != nil {
		return nil, err
	}

	missions := mission.SelectMissions(catalog, today, m.count, m.log)
	s := &Session{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     today,
		Missions: missions,
		Tracker:  mission.NewTracker(userID, missions, m.ledger, m.log),
	}
	m.sessions[userID] = s

	m.log.Info("session created",
		zap.Int64("user_id", userID),
		zap.String("date", today),
		zap.Int("missions", len(missions)))
	return s, nil
}

// PurgeExpired drops sessions whose day has passed and returns how many were
// removed.
func (m *Manager) PurgeExpired() int {
	today := mission.DaySeed(m.now())

	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for userID, s := range m.sessions {
		if s.Date != today {
			delete(m.sessions, userID)
			purged++
		}
	}
	return purged
}
