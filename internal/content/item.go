// Package content provides learning modules, items, and their typed payloads.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUnknownItemType = errors.New("unknown item type")
	ErrInvalidPayload  = errors.New("invalid payload")
)

// ItemType identifies the kind of exercise an item presents.
type ItemType string

const (
	ItemTypeFlashcard      ItemType = "flashcard"
	ItemTypeMultipleChoice ItemType = "multiple_choice"
	ItemTypeGapFill        ItemType = "gap_fill"
	ItemTypeTrueFalse      ItemType = "true_false"
)

// ParseItemType converts s into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case ItemTypeFlashcard, ItemTypeMultipleChoice, ItemTypeGapFill, ItemTypeTrueFalse:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
}

// Scheduled reports whether items of this type take part in spaced repetition.
// Other types only accumulate answer counters.
func (t ItemType) Scheduled() bool {
	return t == ItemTypeFlashcard
}

// Module groups items that are studied together.
type Module struct {
	ID        int64     `db:"id" yaml:"id"`
	Title     string    `db:"title" yaml:"title"`
	OwnerID   int64     `db:"owner_id" yaml:"owner_id"`
	IsPublic  bool      `db:"is_public" yaml:"public"`
	CreatedAt time.Time `db:"created_at" yaml:"-"`
	UpdatedAt time.Time `db:"updated_at" yaml:"-"`
}

// Item is one version of a unit of study content.
type Item struct {
	ID          int64
	ModuleID    int64
	Key         string
	Position    int
	Type        ItemType
	Payload     Payload
	ContentHash string
	Version     int
}

// NewItem builds an item and stamps its content hash.
func NewItem(moduleID int64, key string, position int, payload Payload) (Item, error) {
	hash, err := Hash(payload)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ModuleID:    moduleID,
		Key:         key,
		Position:    position,
		Type:        payload.Type(),
		Payload:     payload,
		ContentHash: hash,
		Version:     1,
	}, nil
}

// Hash fingerprints the payload so progress recorded against an older
// version of the content can be detected.
func Hash(p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("json.Marshal(%s payload) > %w", p.Type(), err)
	}
	sum := sha256.New()
	sum.Write([]byte(p.Type()))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil)), nil
}
