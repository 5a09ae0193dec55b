package server

import "time"

type StartSessionRequest struct {
	ModuleID int64  `json:"moduleId" validate:"gt=0"`
	Mode     string `json:"mode"`
}

type StartSessionResponse struct {
	SessionID string     `json:"sessionId"`
	ModuleID  int64      `json:"moduleId"`
	Mode      string     `json:"mode"`
	StartedAt time.Time  `json:"startedAt"`
	Items     []ItemView `json:"items"`
}

type ItemView struct {
	ItemID        int64      `json:"itemId"`
	Type          string     `json:"type"`
	Payload       any        `json:"payload"`
	ContentHash   string     `json:"contentHash"`
	Version       int        `json:"version"`
	LastResult    string     `json:"lastResult,omitempty"`
	StrengthScore int        `json:"strengthScore"`
	Box           int        `json:"box"`
	Interval      int        `json:"interval"`
	EaseFactor    float64    `json:"easeFactor"`
	Repetition    int        `json:"repetition"`
	NextReviewAt  *time.Time `json:"nextReviewAt,omitempty"`
	IsRetired     bool       `json:"isRetired"`
	Stale         bool       `json:"stale"`
}

type RecordAnswerRequest struct {
	SessionID  string `json:"sessionId" validate:"required,uuid"`
	ItemID     int64  `json:"itemId" validate:"gt=0"`
	Quality    int    `json:"quality"`
	DurationMs int64  `json:"durationMs" validate:"gte=0"`
}

type RecordAnswerResponse struct {
	// State is absent for item types without spaced repetition.
	State *SchedulerState `json:"state,omitempty"`
}

type SchedulerState struct {
	Interval     int       `json:"interval"`
	EaseFactor   float64   `json:"easeFactor"`
	Repetition   int       `json:"repetition"`
	IsRetired    bool      `json:"isRetired"`
	NextReviewAt time.Time `json:"nextReviewAt"`
}

type EndSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type EndSessionResponse struct{}

type GetModuleSummaryRequest struct {
	ModuleID int64 `json:"moduleId" validate:"gt=0"`
}

type GetModuleSummaryResponse struct {
	ModuleID       int64   `json:"moduleId"`
	TotalItems     int     `json:"totalItems"`
	StudiedItems   int     `json:"studiedItems"`
	DueItems       int     `json:"dueItems"`
	RetiredItems   int     `json:"retiredItems"`
	StaleItems     int     `json:"staleItems"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	Accuracy       float64 `json:"accuracy"`
	Boxes          []int   `json:"boxes"`
}
