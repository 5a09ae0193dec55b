// Package session records study sessions and the items served in them.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var ErrNotFound = errors.New("session not found")

// Mode selects which of a module's items a session serves.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeWrongOnly Mode = "wrong_only"
	ModeSM2       Mode = "sm2"
	// ModeReview serves the same items as ModeNormal.
	ModeReview Mode = "review"
)

var modes = []Mode{ModeNormal, ModeWrongOnly, ModeSM2, ModeReview}

// ParseMode accepts mode names case-insensitively, with '-' or '_' separators.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if !slices.Contains(modes, m) {
		return "", fmt.Errorf("invalid mode %q, valid values are normal, wrong_only, sm2, or review", s)
	}
	return m, nil
}

// Set implements pflag.Value.
func (m *Mode) Set(v string) error {
	parsed, err := ParseMode(v)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// String implements pflag.Value.
func (m *Mode) String() string {
	if m == nil {
		return ""
	}
	return string(*m)
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "Mode"
}

var (
	_ pflag.Value = (*Mode)(nil)
)

// Session is one bounded study run. ItemIDs is fixed when the session starts.
type Session struct {
	ID        string
	LearnerID int64
	ModuleID  int64
	Mode      Mode
	StartedAt time.Time
	EndedAt   *time.Time
	ItemIDs   []int64
}

// IsOpen reports whether the session has not been ended.
func (s Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Serves reports whether itemID was selected for the session.
func (s Session) Serves(itemID int64) bool {
	return slices.Contains(s.ItemIDs, itemID)
}
