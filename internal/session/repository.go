package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recall/internal/database"
)

// Repository defines operations for managing study sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	End(ctx context.Context, sessionID string, endedAt time.Time) error
}

type sessionRow struct {
	ID        string       `db:"id"`
	LearnerID int64        `db:"learner_id"`
	ModuleID  int64        `db:"module_id"`
	Mode      string       `db:"mode"`
	StartedAt time.Time    `db:"started_at"`
	EndedAt   sql.NullTime `db:"ended_at"`
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Create inserts the session and its served items in one transaction.
func (r *DBRepository) Create(ctx context.Context, s *Session) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sessions (id, learner_id, module_id, mode, started_at) VALUES (?, ?, ?, ?, ?)",
			s.ID, s.LearnerID, s.ModuleID, string(s.Mode), s.StartedAt); err != nil {
			return fmt.Errorf("tx.ExecContext(insert session) > %w", err)
		}
		if len(s.ItemIDs) == 0 {
			return nil
		}

		rows := make([]map[string]any, 0, len(s.ItemIDs))
		for i, itemID := range s.ItemIDs {
			rows = append(rows, map[string]any{
				"session_id": s.ID,
				"position":   i,
				"item_id":    itemID,
			})
		}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO session_items (session_id, position, item_id) VALUES (:session_id, :position, :item_id)",
			rows); err != nil {
			return fmt.Errorf("tx.NamedExecContext(insert session_items) > %w", err)
		}
		return nil
	})
}

// Get returns the session with its served items.
func (r *DBRepository) Get(ctx context.Context, sessionID string) (*Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, learner_id, module_id, mode, started_at, ended_at FROM sessions WHERE id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(session) > %w", err)
	}

	var itemIDs []int64
	if err := r.db.SelectContext(ctx, &itemIDs,
		"SELECT item_id FROM session_items WHERE session_id = ? ORDER BY position", sessionID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(session_items) > %w", err)
	}

	s := &Session{
		ID:        row.ID,
		LearnerID: row.LearnerID,
		ModuleID:  row.ModuleID,
		Mode:      Mode(row.Mode),
		StartedAt: row.StartedAt,
		ItemIDs:   itemIDs,
	}
	if row.EndedAt.Valid {
		endedAt := row.EndedAt.Time
		s.EndedAt = &endedAt
	}
	return s, nil
}

// End stamps the end time of an open session.
func (r *DBRepository) End(ctx context.Context, sessionID string, endedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL", endedAt, sessionID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(end session) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s is not open", ErrNotFound, sessionID)
	}
	return nil
}
