package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recall/internal/database"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

type schedulerStateRow struct {
	LearnerID    int64     `db:"learner_id"`
	ItemID       int64     `db:"item_id"`
	Interval     int       `db:"interval_days"`
	EaseFactor   float64   `db:"ease_factor"`
	Repetition   int       `db:"repetition"`
	NextReviewAt time.Time `db:"next_review_at"`
	IsRetired    bool      `db:"is_retired"`
}

func (row schedulerStateRow) toState() scheduler.State {
	return scheduler.State{
		Interval:     row.Interval,
		EaseFactor:   row.EaseFactor,
		Repetition:   row.Repetition,
		NextReviewAt: row.NextReviewAt,
		IsRetired:    row.IsRetired,
	}
}

type countersRow struct {
	LearnerID      int64        `db:"learner_id"`
	ItemID         int64        `db:"item_id"`
	CorrectCount   int          `db:"correct_count"`
	WrongCount     int          `db:"wrong_count"`
	LastResult     string       `db:"last_result"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	ContentHash    string       `db:"content_hash"`
}

func (row countersRow) toCounters() Counters {
	return Counters{
		LearnerID:      row.LearnerID,
		ItemID:         row.ItemID,
		CorrectCount:   row.CorrectCount,
		WrongCount:     row.WrongCount,
		LastResult:     Result(row.LastResult),
		LastReviewedAt: row.LastReviewedAt.Time,
		ContentHash:    row.ContentHash,
	}
}

const (
	schedulerStateColumns = "learner_id, item_id, interval_days, ease_factor, repetition, next_review_at, is_retired"
	countersColumns       = "learner_id, item_id, correct_count, wrong_count, last_result, last_reviewed_at, content_hash"
)

// DBStore implements Store using MySQL. Update serializes writers of one
// pair with a row lock on its progress_counters row.
type DBStore struct {
	db *sqlx.DB
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

// GetSchedulerStates returns the scheduler states of the given items keyed by item ID.
// Items without state are absent from the map.
func (s *DBStore) GetSchedulerStates(ctx context.Context, learnerID int64, itemIDs []int64) (map[int64]scheduler.State, error) {
	result := make(map[int64]scheduler.State, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		"SELECT "+schedulerStateColumns+" FROM scheduler_states WHERE learner_id = ? AND item_id IN (?)",
		learnerID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(scheduler_states) > %w", err)
	}

	var rows []schedulerStateRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(scheduler_states) > %w", err)
	}
	for _, row := range rows {
		result[row.ItemID] = row.toState()
	}
	return result, nil
}

// GetProgressCounters returns the counters of the given items keyed by item ID.
// Items that were never answered are absent from the map.
func (s *DBStore) GetProgressCounters(ctx context.Context, learnerID int64, itemIDs []int64) (map[int64]Counters, error) {
	result := make(map[int64]Counters, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		"SELECT "+countersColumns+" FROM progress_counters WHERE learner_id = ? AND item_id IN (?) AND last_reviewed_at IS NOT NULL",
		learnerID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(progress_counters) > %w", err)
	}

	var rows []countersRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(progress_counters) > %w", err)
	}
	for _, row := range rows {
		result[row.ItemID] = row.toCounters()
	}
	return result, nil
}

// Update locks the pair's progress_counters row, creating an empty one on
// first review, and runs fn in the same transaction.
func (s *DBStore) Update(ctx context.Context, learnerID, itemID int64, fn func(ctx context.Context, tx Tx) error) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO progress_counters (learner_id, item_id) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE learner_id = learner_id`,
			learnerID, itemID); err != nil {
			return fmt.Errorf("tx.ExecContext(lock progress_counters) > %w", err)
		}

		var row countersRow
		if err := tx.GetContext(ctx, &row,
			"SELECT "+countersColumns+" FROM progress_counters WHERE learner_id = ? AND item_id = ? FOR UPDATE",
			learnerID, itemID); err != nil {
			return fmt.Errorf("tx.GetContext(progress_counters for update) > %w", err)
		}

		return fn(ctx, &dbTx{tx: tx, learnerID: learnerID, itemID: itemID, locked: row})
	})
}

type dbTx struct {
	tx        *sqlx.Tx
	learnerID int64
	itemID    int64
	locked    countersRow
}

func (t *dbTx) SchedulerState(ctx context.Context) (*scheduler.State, error) {
	var row schedulerStateRow
	err := t.tx.GetContext(ctx, &row,
		"SELECT "+schedulerStateColumns+" FROM scheduler_states WHERE learner_id = ? AND item_id = ?",
		t.learnerID, t.itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tx.GetContext(scheduler_state) > %w", err)
	}
	st := row.toState()
	return &st, nil
}

func (t *dbTx) Counters(context.Context) (*Counters, error) {
	if !t.locked.LastReviewedAt.Valid {
		return nil, nil
	}
	c := t.locked.toCounters()
	return &c, nil
}

func (t *dbTx) AppendAnswer(ctx context.Context, event *AnswerEvent) error {
	result, err := t.tx.ExecContext(ctx,
		`INSERT INTO answer_events (session_id, learner_id, item_id, quality, duration_ms, answered_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.SessionID, t.learnerID, t.itemID, event.Quality, event.DurationMs, event.AnsweredAt)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(insert answer_event) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	event.ID = id
	event.LearnerID = t.learnerID
	event.ItemID = t.itemID
	return nil
}

func (t *dbTx) UpsertSchedulerState(ctx context.Context, state scheduler.State) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO scheduler_states (learner_id, item_id, interval_days, ease_factor, repetition, next_review_at, is_retired)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE interval_days = VALUES(interval_days), ease_factor = VALUES(ease_factor),
			repetition = VALUES(repetition), next_review_at = VALUES(next_review_at), is_retired = VALUES(is_retired)`,
		t.learnerID, t.itemID, state.Interval, state.EaseFactor, state.Repetition, state.NextReviewAt, state.IsRetired); err != nil {
		return fmt.Errorf("tx.ExecContext(upsert scheduler_state) > %w", err)
	}
	return nil
}

func (t *dbTx) UpsertProgressCounters(ctx context.Context, counters Counters) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE progress_counters SET correct_count = ?, wrong_count = ?, last_result = ?, last_reviewed_at = ?, content_hash = ?
		WHERE learner_id = ? AND item_id = ?`,
		counters.CorrectCount, counters.WrongCount, string(counters.LastResult), counters.LastReviewedAt, counters.ContentHash,
		t.learnerID, t.itemID); err != nil {
		return fmt.Errorf("tx.ExecContext(update progress_counters) > %w", err)
	}
	return nil
}
