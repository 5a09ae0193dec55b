// Package scheduler implements the SM-2 spaced repetition algorithm.
package scheduler

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	MinQuality = 0
	MaxQuality = 5

	day = 24 * time.Hour
)

// Config tunes the scheduler. Use DefaultConfig for the classic SM-2 values.
type Config struct {
	InitialEaseFactor      float64
	MinEaseFactor          float64
	FirstIntervalDays      int
	SecondIntervalDays     int
	MaxIntervalDays        int
	RetirementIntervalDays int
	PassingQuality         int
	// ResetRetirementOnLapse clears IsRetired whenever a failed review resets
	// the repetition count. The flag is sticky when false.
	ResetRetirementOnLapse bool
}

// DefaultConfig returns the classic SM-2 configuration.
func DefaultConfig() Config {
	return Config{
		InitialEaseFactor:      DefaultEaseFactor,
		MinEaseFactor:          MinEaseFactor,
		FirstIntervalDays:      1,
		SecondIntervalDays:     6,
		MaxIntervalDays:        365,
		RetirementIntervalDays: 90,
		PassingQuality:         3,
	}
}

// Validate reports an error if the configuration cannot produce the
// ease and interval bounds the scheduler guarantees.
func (c Config) Validate() error {
	if c.MinEaseFactor < MinEaseFactor {
		return fmt.Errorf("min ease factor %v must be at least %v", c.MinEaseFactor, MinEaseFactor)
	}
	if c.InitialEaseFactor < c.MinEaseFactor {
		return fmt.Errorf("initial ease factor %v is below the minimum %v", c.InitialEaseFactor, c.MinEaseFactor)
	}
	if c.FirstIntervalDays < 1 {
		return fmt.Errorf("first interval %d must be at least 1 day", c.FirstIntervalDays)
	}
	if c.SecondIntervalDays < c.FirstIntervalDays {
		return fmt.Errorf("second interval %d is shorter than the first interval %d", c.SecondIntervalDays, c.FirstIntervalDays)
	}
	if c.MaxIntervalDays < c.SecondIntervalDays {
		return fmt.Errorf("max interval %d is shorter than the second interval %d", c.MaxIntervalDays, c.SecondIntervalDays)
	}
	if c.RetirementIntervalDays < 1 {
		return fmt.Errorf("retirement interval %d must be at least 1 day", c.RetirementIntervalDays)
	}
	if c.PassingQuality < MinQuality || c.PassingQuality > MaxQuality {
		return fmt.Errorf("passing quality %d out of range [%d, %d]", c.PassingQuality, MinQuality, MaxQuality)
	}
	return nil
}

// State is the scheduling memory of one learner for one item.
type State struct {
	Interval     int       `json:"interval"`
	EaseFactor   float64   `json:"ease_factor"`
	Repetition   int       `json:"repetition"`
	NextReviewAt time.Time `json:"next_review_at"`
	IsRetired    bool      `json:"is_retired"`
}

// Scheduler computes SM-2 transitions. It holds no mutable state and is safe
// for concurrent use.
type Scheduler struct {
	cfg Config
}

// New creates a Scheduler from cfg.
func New(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}
	return &Scheduler{cfg: cfg}, nil
}

// Config returns the configuration the scheduler was built with.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Fresh returns the state of an item that has never been reviewed.
func (s *Scheduler) Fresh() State {
	return State{EaseFactor: s.cfg.InitialEaseFactor}
}

// IsSuccess reports whether quality counts as a successful recall.
func (s *Scheduler) IsSuccess(quality int) bool {
	return ClampQuality(quality) >= s.cfg.PassingQuality
}

// Advance returns the state after a review of the given quality at now.
// Quality is saturated into [0, 5].
func (s *Scheduler) Advance(state State, quality int, now time.Time) State {
	q := ClampQuality(quality)
	ease := state.EaseFactor
	if ease == 0 {
		ease = s.cfg.InitialEaseFactor
	}

	next := State{IsRetired: state.IsRetired}
	if q >= s.cfg.PassingQuality {
		switch state.Repetition {
		case 0:
			next.Interval = s.cfg.FirstIntervalDays
		case 1:
			next.Interval = s.cfg.SecondIntervalDays
		default:
			next.Interval = int(math.Round(float64(state.Interval) * ease))
		}
		next.Repetition = state.Repetition + 1
		next.EaseFactor = updateEaseFactor(ease, q)
	} else {
		next.Interval = s.cfg.FirstIntervalDays
		next.Repetition = 0
		next.EaseFactor = ease
		if s.cfg.ResetRetirementOnLapse {
			next.IsRetired = false
		}
	}

	next.EaseFactor = math.Max(next.EaseFactor, s.cfg.MinEaseFactor)
	next.Interval = clampInterval(next.Interval, s.cfg.MaxIntervalDays)
	if next.Interval >= s.cfg.RetirementIntervalDays {
		next.IsRetired = true
	}
	next.NextReviewAt = now.Add(time.Duration(next.Interval) * day)
	return next
}

// IsDue reports whether an item with state is due at now.
func IsDue(state *State, now time.Time) bool {
	return state == nil || !state.NextReviewAt.After(now)
}

// ClampQuality saturates quality into [0, 5].
func ClampQuality(quality int) int {
	return min(max(quality, MinQuality), MaxQuality)
}

func updateEaseFactor(ease float64, quality int) float64 {
	d := float64(MaxQuality - quality)
	return ease + (0.1 - d*(0.08+d*0.02))
}

func clampInterval(interval, maxInterval int) int {
	return min(max(interval, 1), maxInterval)
}
