// Package access decides whether a learner may read a module.
package access

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBChecker grants access to public modules, to their owner, and to learners
// listed in module_grants.
type DBChecker struct {
	db *sqlx.DB
}

// NewDBChecker creates a new DBChecker.
func NewDBChecker(db *sqlx.DB) *DBChecker {
	return &DBChecker{db: db}
}

// HasAccess reports whether learnerID may read moduleID. A missing module
// has no readers.
func (c *DBChecker) HasAccess(ctx context.Context, learnerID, moduleID int64) (bool, error) {
	var count int
	if err := c.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM modules m
		WHERE m.id = ? AND (m.is_public OR m.owner_id = ?
			OR EXISTS (SELECT 1 FROM module_grants g WHERE g.module_id = m.id AND g.learner_id = ?))`,
		moduleID, learnerID, learnerID); err != nil {
		return false, fmt.Errorf("db.GetContext(module access) > %w", err)
	}
	return count > 0, nil
}

// Grant gives learnerID read access to moduleID. Granting twice is a no-op.
func (c *DBChecker) Grant(ctx context.Context, learnerID, moduleID int64) error {
	if _, err := c.db.ExecContext(ctx,
		"INSERT IGNORE INTO module_grants (module_id, learner_id) VALUES (?, ?)",
		moduleID, learnerID); err != nil {
		return fmt.Errorf("db.ExecContext(insert module_grant) > %w", err)
	}
	return nil
}
