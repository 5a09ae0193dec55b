package study

import (
	"context"
	"time"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/session"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/study/mock_interfaces.go -package=mock_study

// ContentStore reads modules and their items.
type ContentStore interface {
	// FindModule returns nil if the module does not exist.
	FindModule(ctx context.Context, moduleID int64) (*content.Module, error)
	// GetModuleItems returns the items in module order.
	GetModuleItems(ctx context.Context, moduleID int64) ([]content.Item, error)
	GetItem(ctx context.Context, itemID int64) (content.Item, error)
}

// AccessChecker decides whether a learner may read a module.
type AccessChecker interface {
	HasAccess(ctx context.Context, learnerID, moduleID int64) (bool, error)
}

// SessionStore persists study sessions.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	End(ctx context.Context, sessionID string, endedAt time.Time) error
}
