// Package grading scores a spoken attempt against its target phrase.
package grading

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// Threshold is the single success gate: grades above it count as a pass.
// Grade only ever returns 1.0, 0.8 or 0.5, so the effective contract is
// binary — exact or containment passes, anything else fails.
const Threshold = 0.7

// Grade returns a coarse similarity score in [0, 1] between a transcript and
// the target sentence. Whitespace and the punctuation set {.,?!} are ignored.
func Grade(attempt, target string) float64 {
	a := normalize(attempt)
	b := normalize(target)

	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return 0.5
}

// Passed reports whether a grade clears the success threshold.
func Passed(grade float64) bool {
	return grade > Threshold
}

// Similarity returns a Jaro-Winkler score between the normalized strings.
// Advisory only — shown to the user as feedback detail, never used to gate
// mission success.
func Similarity(attempt, target string) float64 {
	return matchr.JaroWinkler(normalize(attempt), normalize(target), false)
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '.', ',', '?', '!':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
