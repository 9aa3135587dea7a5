// Package mission implements the deterministic daily mission core: selecting
// the day's phrases from the catalog and tracking per-phrase attempt state.
package mission

import (
	"time"

	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/seedrand"
	"github.com/example/phrasebot/pkg/models"
)

// DaySeed renders a calendar day as the locale-independent seed string used
// for mission selection. Same day, same seed, for every client and server.
func DaySeed(t time.Time) string {
	return t.Format("2006-01-02")
}

// SelectMissions returns the mission set for a seed: a seeded Fisher-Yates
// shuffle over a copy of the catalog, first count elements returned.
//
// For a fixed catalog content and order and a fixed seed the output is
// identical across calls, processes and platforms. The caller owns catalog
// ordering stability — an unstable upstream sort breaks determinism here.
//
// A count larger than the catalog is clamped with a warning rather than
// failing; an empty catalog yields nil.
func SelectMissions(catalog []models.Phrase, seed string, count int, log *zap.Logger) []models.Phrase {
	if log == nil {
		log = zap.NewNop()
	}
	if len(catalog) == 0 {
		log.Warn("mission selection on empty catalog", zap.String("seed", seed))
		return nil
	}
	if count > len(catalog) {
		log.Warn("mission count exceeds catalog size, clamping",
			zap.Int("count", count),
			zap.Int("catalog", len(catalog)))
		count = len(catalog)
	}
	if count <= 0 {
		return nil
	}

	shuffled := make([]models.Phrase, len(catalog))
	copy(shuffled, catalog)

	// Backward Fisher-Yates driven by the seeded generator
	rnd := seedrand.New(seed)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:count]
}
