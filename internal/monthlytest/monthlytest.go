// Package monthlytest builds the month-end review test by replaying the
// daily mission selection for every day of the current month so far.
package monthlytest

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/mission"
	"github.com/example/phrasebot/pkg/models"
)

// TestSize is the number of questions drawn for the monthly test.
const TestSize = 10

// PassScore is the minimum percentage score counted as a pass.
const PassScore = 70.0

// IsLastDayOfMonth reports whether the monthly test window is open: tomorrow
// is the 1st.
func IsLastDayOfMonth(today time.Time) bool {
	return today.AddDate(0, 0, 1).Day() == 1
}

// MonthKey renders the month of t as "YYYY-MM" for the test-result record.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Assembler reconstructs the month's mission history from the catalog. The
// replay is pure: it assumes the catalog kept its contents and order since
// the days being replayed.
type Assembler struct {
	Catalog []models.Phrase
	PerDay  int // historical missions-per-day count
	log     *zap.Logger
}

// New creates an assembler over the given catalog snapshot.
func New(catalog []models.Phrase, perDay int, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{Catalog: catalog, PerDay: perDay, log: log}
}

// BuildPool unions the mission sets of every day from the 1st of today's
// month up to, but excluding, today — deduplicated by phrase identity.
func (a *Assembler) BuildPool(today time.Time) []models.Phrase {
	var pool []models.Phrase
	seen := make(map[string]bool)

	day := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for day.Before(end) {
		for _, p := range mission.SelectMissions(a.Catalog, mission.DaySeed(day), a.PerDay, a.log) {
			if seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			pool = append(pool, p)
		}
		day = day.AddDate(0, 0, 1)
	}

	return pool
}

// SampleTest draws size phrases from the pool. Unlike daily selection this
// draw is not seeded, so each test-taker gets their own question order.
// A pool smaller than size is returned whole with a warning.
func (a *Assembler) SampleTest(pool []models.Phrase, size int) []models.Phrase {
	if len(pool) <= size {
		if len(pool) < size {
			a.log.Warn("monthly pool smaller than test size",
				zap.Int("pool", len(pool)),
				zap.Int("size", size))
		}
		out := make([]models.Phrase, len(pool))
		copy(out, pool)
		return out
	}

	shuffled := make([]models.Phrase, len(pool))
	copy(shuffled, pool)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:size]
}

// Score converts a correct count into a percentage and the pass verdict.
func Score(correct, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	score := float64(correct) / float64(total) * 100
	return score, score >= PassScore
}
