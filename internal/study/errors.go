package study

import (
	"errors"
	"fmt"
)

var (
	ErrAccessDenied     = errors.New("access denied")
	ErrModuleNotFound   = errors.New("module not found")
	ErrNoItemsAvailable = errors.New("no items available")
	// ErrModuleEmpty is an ErrNoItemsAvailable for modules that have no items at all.
	ErrModuleEmpty    = fmt.Errorf("module has no items: %w", ErrNoItemsAvailable)
	ErrInvalidSession = errors.New("invalid session")
	ErrItemMismatch   = errors.New("item does not belong to session")
	ErrUnauthorized   = errors.New("session belongs to another learner")
)
