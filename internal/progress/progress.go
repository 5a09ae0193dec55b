// Package progress stores per-learner scheduling state, answer counters, and
// the append-only answer log.
package progress

import (
	"context"
	"time"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

// Result is the outcome of the most recent answer to an item.
type Result string

const (
	ResultCorrect Result = "correct"
	ResultWrong   Result = "wrong"
)

// Counters is the cumulative answer record of one learner for one item.
type Counters struct {
	LearnerID      int64     `db:"learner_id"`
	ItemID         int64     `db:"item_id"`
	CorrectCount   int       `db:"correct_count"`
	WrongCount     int       `db:"wrong_count"`
	LastResult     Result    `db:"last_result"`
	LastReviewedAt time.Time `db:"last_reviewed_at"`
	ContentHash    string    `db:"content_hash"`
}

// Record applies one answer and stamps the hash of the content it was given for.
func (c *Counters) Record(correct bool, contentHash string, at time.Time) {
	if correct {
		c.CorrectCount++
		c.LastResult = ResultCorrect
	} else {
		c.WrongCount++
		c.LastResult = ResultWrong
	}
	c.LastReviewedAt = at
	c.ContentHash = contentHash
}

// AnswerEvent is one graded response. Events are never modified.
type AnswerEvent struct {
	ID         int64     `db:"id"`
	SessionID  string    `db:"session_id"`
	LearnerID  int64     `db:"learner_id"`
	ItemID     int64     `db:"item_id"`
	Quality    int       `db:"quality"`
	DurationMs int64     `db:"duration_ms"`
	AnsweredAt time.Time `db:"answered_at"`
}

// Store persists progress. Reads are batched by item; writes for one
// (learner, item) pair go through Update, which serializes them.
type Store interface {
	GetSchedulerStates(ctx context.Context, learnerID int64, itemIDs []int64) (map[int64]scheduler.State, error)
	GetProgressCounters(ctx context.Context, learnerID int64, itemIDs []int64) (map[int64]Counters, error)
	// Update runs fn with exclusive access to the pair. Everything fn writes
	// is applied together if fn returns nil, and discarded otherwise.
	Update(ctx context.Context, learnerID, itemID int64, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the view of one (learner, item) pair inside Store.Update.
type Tx interface {
	// SchedulerState returns nil if the item was never scheduled.
	SchedulerState(ctx context.Context) (*scheduler.State, error)
	// Counters returns nil if the item was never answered.
	Counters(ctx context.Context) (*Counters, error)
	AppendAnswer(ctx context.Context, event *AnswerEvent) error
	UpsertSchedulerState(ctx context.Context, state scheduler.State) error
	UpsertProgressCounters(ctx context.Context, counters Counters) error
}
