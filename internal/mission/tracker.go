package mission

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/grading"
	"github.com/example/phrasebot/pkg/models"
)

// MaxAttempts is the number of failed tries allowed per phrase per day.
const MaxAttempts = 2

// State of a single phrase within the day's mission set.
type State int

const (
	// StateReady accepts further attempts
	StateReady State = iota
	// StateLocked is terminal for the day: both attempts failed
	StateLocked
	// StateCompleted is terminal for the day: a passing attempt was made
	StateCompleted
)

// Outcome of one call to RecordAttempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeRetry   Outcome = "retry"
	OutcomeLocked  Outcome = "locked"
)

// Status tracks attempts and completion for one phrase
type Status struct {
	Phrase    models.Phrase `json:"phrase"`
	Attempts  int           `json:"attempts"`
	Completed bool          `json:"completed"`
	Locked    bool          `json:"locked"`
}

// State reports the status as a state-machine state.
func (s *Status) State() State {
	switch {
	case s.Completed:
		return StateCompleted
	case s.Locked:
		return StateLocked
	default:
		return StateReady
	}
}

// RewardReceipt is what the ledger reports back after logging a mission
// result. Granted is false when today's reward was already handed out;
// Points is the user's updated balance after a grant.
type RewardReceipt struct {
	Granted bool
	Points  int
	Message string
}

// Ledger is the persisted reward backend the tracker reports to. It owns the
// once-per-day reward cap; the tracker only decides when a phrase completes.
type Ledger interface {
	LogMissionResult(ctx context.Context, userID int64, sentence, result string, attemptsUsed int) (RewardReceipt, error)
}

// AttemptResult describes the outcome of a graded attempt
type AttemptResult struct {
	Outcome       Outcome `json:"outcome"`
	Accuracy      float64 `json:"accuracy"`
	Similarity    float64 `json:"similarity"` // advisory Jaro-Winkler detail
	AttemptsLeft  int     `json:"attempts_left"`
	Points        int     `json:"points"` // updated balance when a reward was granted
	Message       string  `json:"message,omitempty"`
	Warning       string  `json:"warning,omitempty"` // set when the ledger write failed
}

// Tracker is the per-user, per-day mission state machine. Not safe for
// concurrent use; the owning session serializes access.
type Tracker struct {
	userID   int64
	ledger   Ledger
	log      *zap.Logger
	statuses map[string]*Status
	order    []string
	rewarded map[string]bool // phrases already reported to the ledger as success
}

// NewTracker creates tracker state for the given mission set, one Ready
// status per phrase.
func NewTracker(userID int64, missions []models.Phrase, ledger Ledger, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{
		userID:   userID,
		ledger:   ledger,
		log:      log,
		statuses: make(map[string]*Status, len(missions)),
		rewarded: make(map[string]bool, len(missions)),
	}
	for _, p := range missions {
		key := p.Key()
		if _, ok := t.statuses[key]; ok {
			continue
		}
		t.statuses[key] = &Status{Phrase: p}
		t.order = append(t.order, key)
	}
	return t
}

// Statuses returns the mission statuses in selection order.
func (t *Tracker) Statuses() []Status {
	out := make([]Status, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, *t.statuses[key])
	}
	return out
}

// AllCompleted reports whether every mission phrase has been completed.
func (t *Tracker) AllCompleted() bool {
	for _, s := range t.statuses {
		if !s.Completed {
			return false
		}
	}
	return len(t.statuses) > 0
}

// RecordAttempt grades a finalized transcript against the phrase and applies
// the state transition. Completed and Locked phrases are terminal: repeated
// calls are no-ops that report the terminal outcome without touching the
// ledger again.
//
// A ledger failure never rolls back local state and is never retried; it is
// surfaced as a warning on the result.
func (t *Tracker) RecordAttempt(ctx context.Context, phrase models.Phrase, transcript string) (AttemptResult, error) {
	status, ok := t.statuses[phrase.Key()]
	if !ok {
		return AttemptResult{}, fmt.Errorf("phrase %q is not part of today's missions", phrase.Korean)
	}

	accuracy := grading.Grade(transcript, phrase.Korean)
	similarity := grading.Similarity(transcript, phrase.Korean)

	// Terminal states first: no re-entry, no double reward
	switch status.State() {
	case StateCompleted:
		return AttemptResult{
			Outcome:    OutcomeSuccess,
			Accuracy:   accuracy,
			Similarity: similarity,
			Message:    "already completed today",
		}, nil
	case StateLocked:
		return AttemptResult{
			Outcome:    OutcomeLocked,
			Accuracy:   accuracy,
			Similarity: similarity,
			Message:    "no attempts left today",
		}, nil
	}

	if grading.Passed(accuracy) {
		status.Completed = true
		result := AttemptResult{
			Outcome:    OutcomeSuccess,
			Accuracy:   accuracy,
			Similarity: similarity,
		}
		t.report(ctx, status, models.MissionResultSuccess, &result)
		return result, nil
	}

	status.Attempts++
	if status.Attempts >= MaxAttempts {
		status.Locked = true
		result := AttemptResult{
			Outcome:    OutcomeLocked,
			Accuracy:   accuracy,
			Similarity: similarity,
			Message:    "mission locked for today",
		}
		t.report(ctx, status, models.MissionResultFail, &result)
		return result, nil
	}

	return AttemptResult{
		Outcome:      OutcomeRetry,
		Accuracy:     accuracy,
		Similarity:   similarity,
		AttemptsLeft: MaxAttempts - status.Attempts,
	}, nil
}

// report sends the outcome to the ledger. The success path counts completion
// attempts as attempts-so-far plus the passing one.
func (t *Tracker) report(ctx context.Context, status *Status, result string, out *AttemptResult) {
	if t.ledger == nil {
		return
	}
	key := status.Phrase.Key()
	if result == models.MissionResultSuccess {
		if t.rewarded[key] {
			return
		}
		t.rewarded[key] = true
	}

	attemptsUsed := status.Attempts
	if result == models.MissionResultSuccess {
		attemptsUsed++
	}

	receipt, err := t.ledger.LogMissionResult(ctx, t.userID, status.Phrase.Korean, result, attemptsUsed)
	if err != nil {
		// Optimistic local state: completion stands, no retry
		t.log.Warn("ledger write failed, keeping local mission state",
			zap.Int64("user_id", t.userID),
			zap.String("sentence", status.Phrase.Korean),
			zap.String("result", result),
			zap.Error(err))
		out.Warning = "progress saved locally, points may arrive later"
		return
	}
	if receipt.Granted {
		out.Points = receipt.Points
	}
	if receipt.Message != "" {
		out.Message = receipt.Message
	}
}
