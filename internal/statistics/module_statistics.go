// Package statistics summarizes a learner's progress through a module.
package statistics

import (
	"time"

	"github.com/at-ishikawa/recall/internal/progress"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// Entry is the progress of one item. State and Counters are nil when the
// learner never scheduled or answered the item.
type Entry struct {
	ItemID   int64
	State    *scheduler.State
	Counters *progress.Counters
	Stale    bool
}

// Summary holds module-level totals for one learner
type Summary struct {
	ModuleID       int64   `json:"module_id"`
	TotalItems     int     `json:"total_items"`
	StudiedItems   int     `json:"studied_items"`
	DueItems       int     `json:"due_items"`
	RetiredItems   int     `json:"retired_items"`
	StaleItems     int     `json:"stale_items"`
	CorrectAnswers int     `json:"correct_answers"`
	WrongAnswers   int     `json:"wrong_answers"`
	Accuracy       float64 `json:"accuracy"`
	// Boxes[i] counts scheduled items in box i+1.
	Boxes [5]int `json:"boxes"`
}

// Summarize aggregates entries as of now. Items without scheduler state are
// counted as due but are not placed in any box.
func Summarize(moduleID int64, entries []Entry, now time.Time) Summary {
	s := Summary{ModuleID: moduleID, TotalItems: len(entries)}
	for _, e := range entries {
		if scheduler.IsDue(e.State, now) {
			s.DueItems++
		}
		if e.State != nil {
			s.Boxes[scheduler.Box(e.State.Interval)-1]++
			if e.State.IsRetired {
				s.RetiredItems++
			}
		}
		if e.Counters != nil {
			s.StudiedItems++
			s.CorrectAnswers += e.Counters.CorrectCount
			s.WrongAnswers += e.Counters.WrongCount
		}
		if e.Stale {
			s.StaleItems++
		}
	}
	if answers := s.CorrectAnswers + s.WrongAnswers; answers > 0 {
		s.Accuracy = float64(s.CorrectAnswers) / float64(answers)
	}
	return s
}
