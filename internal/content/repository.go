package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/content/mock_repository.go -package=mock_content

// Repository defines operations for managing modules and their items.
type Repository interface {
	FindModule(ctx context.Context, moduleID int64) (*Module, error)
	GetModuleItems(ctx context.Context, moduleID int64) ([]Item, error)
	GetItem(ctx context.Context, itemID int64) (Item, error)
	SaveModule(ctx context.Context, module *Module) error
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
}

type itemRow struct {
	ID          int64     `db:"id"`
	ModuleID    int64     `db:"module_id"`
	Key         string    `db:"item_key"`
	Position    int       `db:"position"`
	Type        string    `db:"item_type"`
	Payload     []byte    `db:"payload"`
	ContentHash string    `db:"content_hash"`
	Version     int       `db:"version"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row itemRow) toItem() (Item, error) {
	t, err := ParseItemType(row.Type)
	if err != nil {
		return Item{}, fmt.Errorf("item %d: %w", row.ID, err)
	}
	payload, err := DecodePayload(t, row.Payload)
	if err != nil {
		return Item{}, fmt.Errorf("item %d: %w", row.ID, err)
	}
	return Item{
		ID:          row.ID,
		ModuleID:    row.ModuleID,
		Key:         row.Key,
		Position:    row.Position,
		Type:        t,
		Payload:     payload,
		ContentHash: row.ContentHash,
		Version:     row.Version,
	}, nil
}

const itemColumns = "id, module_id, item_key, position, item_type, payload, content_hash, version, created_at, updated_at"

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindModule returns the module, or nil if not found.
func (r *DBRepository) FindModule(ctx context.Context, moduleID int64) (*Module, error) {
	var m Module
	err := r.db.GetContext(ctx, &m,
		"SELECT id, title, owner_id, is_public, created_at, updated_at FROM modules WHERE id = ?", moduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(module) > %w", err)
	}
	return &m, nil
}

// GetModuleItems returns the module's items in their defined order.
func (r *DBRepository) GetModuleItems(ctx context.Context, moduleID int64) ([]Item, error) {
	m, err := r.FindModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %d", ErrModuleNotFound, moduleID)
	}

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT "+itemColumns+" FROM items WHERE module_id = ? ORDER BY position, id", moduleID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(items by module) > %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetItem returns a single item.
func (r *DBRepository) GetItem(ctx context.Context, itemID int64) (Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, "SELECT "+itemColumns+" FROM items WHERE id = ?", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}
	if err != nil {
		return Item{}, fmt.Errorf("db.GetContext(item) > %w", err)
	}
	return row.toItem()
}

// SaveModule inserts the module or updates it when the ID already exists.
func (r *DBRepository) SaveModule(ctx context.Context, module *Module) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO modules (id, title, owner_id, is_public) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE title = VALUES(title), owner_id = VALUES(owner_id), is_public = VALUES(is_public)`,
		module.ID, module.Title, module.OwnerID, module.IsPublic)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert module) > %w", err)
	}
	if module.ID != 0 {
		return nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	module.ID = id
	return nil
}

// CreateItem inserts a new item.
func (r *DBRepository) CreateItem(ctx context.Context, item *Item) error {
	payload, err := EncodePayload(item.Payload)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (module_id, item_key, position, item_type, payload, content_hash, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ModuleID, item.Key, item.Position, string(item.Type), payload, item.ContentHash, item.Version)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert item) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem replaces the content of an existing item.
func (r *DBRepository) UpdateItem(ctx context.Context, item *Item) error {
	payload, err := EncodePayload(item.Payload)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE items SET position = ?, item_type = ?, payload = ?, content_hash = ?, version = ? WHERE id = ?`,
		item.Position, string(item.Type), payload, item.ContentHash, item.Version, item.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update item) > %w", err)
	}
	return nil
}
