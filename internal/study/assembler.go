// Package study assembles study sessions from module content and learner
// progress, and records answers against the scheduler.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/progress"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/session"
	"github.com/at-ishikawa/recall/internal/statistics"
)

// ItemView is an item as presented in a session, merged with the learner's progress.
type ItemView struct {
	Item          content.Item
	LastResult    progress.Result
	StrengthScore int
	Box           int
	Interval      int
	EaseFactor    float64
	Repetition    int
	NextReviewAt  *time.Time
	IsRetired     bool
	// Stale is set when the recorded progress predates the item's current content.
	Stale bool

	state    *scheduler.State
	counters *progress.Counters
}

// StartedSession is the result of StartSession.
type StartedSession struct {
	ID        string
	ModuleID  int64
	Mode      session.Mode
	StartedAt time.Time
	Items     []ItemView
}

// Assembler selects session items and records answers.
type Assembler struct {
	scheduler *scheduler.Scheduler
	content   ContentStore
	access    AccessChecker
	sessions  SessionStore
	progress  progress.Store
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// WithLogger replaces slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates a new Assembler.
func NewAssembler(
	sched *scheduler.Scheduler,
	contentStore ContentStore,
	accessChecker AccessChecker,
	sessionStore SessionStore,
	progressStore progress.Store,
	opts ...Option,
) *Assembler {
	a := &Assembler{
		scheduler: sched,
		content:   contentStore,
		access:    accessChecker,
		sessions:  sessionStore,
		progress:  progressStore,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartSession selects the module's items for mode and records the session.
// It returns an error wrapping ErrNoItemsAvailable when nothing matches.
func (a *Assembler) StartSession(ctx context.Context, learnerID, moduleID int64, mode session.Mode) (*StartedSession, error) {
	mode, err := session.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	views, err := a.loadModule(ctx, learnerID, moduleID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("module %d: %w", moduleID, ErrModuleEmpty)
	}

	now := a.now()
	selected := filterViews(views, mode, now)
	if len(selected) == 0 {
		return nil, fmt.Errorf("module %d in %s mode: %w", moduleID, mode, ErrNoItemsAvailable)
	}

	s := &session.Session{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		ModuleID:  moduleID,
		Mode:      mode,
		StartedAt: now,
		ItemIDs:   make([]int64, 0, len(selected)),
	}
	for _, v := range selected {
		s.ItemIDs = append(s.ItemIDs, v.Item.ID)
	}
	if err := a.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("sessions.Create() > %w", err)
	}

	a.logger.Info("session started",
		"session_id", s.ID,
		"learner_id", learnerID,
		"module_id", moduleID,
		"mode", mode,
		"items", len(selected),
		"module_items", len(views))

	return &StartedSession{
		ID:        s.ID,
		ModuleID:  moduleID,
		Mode:      mode,
		StartedAt: now,
		Items:     selected,
	}, nil
}

// RecordAnswer grades one served item. It returns the item's new scheduler
// state, or nil if the item type is not scheduled.
func (a *Assembler) RecordAnswer(ctx context.Context, learnerID int64, sessionID string, itemID int64, quality int, durationMs int64) (*scheduler.State, error) {
	s, err := a.openSession(ctx, learnerID, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := a.content.GetItem(ctx, itemID)
	if errors.Is(err, content.ErrItemNotFound) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrItemMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("content.GetItem(%d) > %w", itemID, err)
	}
	if item.ModuleID != s.ModuleID {
		return nil, fmt.Errorf("item %d is in module %d, session %s is for module %d: %w",
			itemID, item.ModuleID, sessionID, s.ModuleID, ErrItemMismatch)
	}
	if !s.Serves(itemID) {
		return nil, fmt.Errorf("item %d was not served in session %s: %w", itemID, sessionID, ErrItemMismatch)
	}

	quality = scheduler.ClampQuality(quality)
	success := a.scheduler.IsSuccess(quality)
	now := a.now()

	var next *scheduler.State
	if err := a.progress.Update(ctx, learnerID, itemID, func(ctx context.Context, tx progress.Tx) error {
		next = nil
		if err := tx.AppendAnswer(ctx, &progress.AnswerEvent{
			SessionID:  sessionID,
			Quality:    quality,
			DurationMs: durationMs,
			AnsweredAt: now,
		}); err != nil {
			return err
		}

		counters, err := tx.Counters(ctx)
		if err != nil {
			return err
		}
		if counters == nil {
			counters = &progress.Counters{LearnerID: learnerID, ItemID: itemID}
		}
		counters.Record(success, item.ContentHash, now)
		if err := tx.UpsertProgressCounters(ctx, *counters); err != nil {
			return err
		}

		if !item.Type.Scheduled() {
			return nil
		}
		state, err := tx.SchedulerState(ctx)
		if err != nil {
			return err
		}
		if state == nil {
			fresh := a.scheduler.Fresh()
			state = &fresh
		}
		advanced := a.scheduler.Advance(*state, quality, now)
		if err := tx.UpsertSchedulerState(ctx, advanced); err != nil {
			return err
		}
		next = &advanced
		return nil
	}); err != nil {
		return nil, fmt.Errorf("progress.Update(learner=%d, item=%d) > %w", learnerID, itemID, err)
	}

	a.logger.Debug("answer recorded",
		"session_id", sessionID,
		"learner_id", learnerID,
		"item_id", itemID,
		"quality", quality,
		"success", success,
		"scheduled", next != nil)
	return next, nil
}

// EndSession stamps the end of an open session. Sessions that are never
// ended are left open.
func (a *Assembler) EndSession(ctx context.Context, learnerID int64, sessionID string) error {
	if _, err := a.openSession(ctx, learnerID, sessionID); err != nil {
		return err
	}
	if err := a.sessions.End(ctx, sessionID, a.now()); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return fmt.Errorf("session %s: %w", sessionID, ErrInvalidSession)
		}
		return fmt.Errorf("sessions.End(%s) > %w", sessionID, err)
	}
	a.logger.Info("session ended", "session_id", sessionID, "learner_id", learnerID)
	return nil
}

// ModuleSummary aggregates the learner's progress through a module.
func (a *Assembler) ModuleSummary(ctx context.Context, learnerID, moduleID int64) (statistics.Summary, error) {
	views, err := a.loadModule(ctx, learnerID, moduleID)
	if err != nil {
		return statistics.Summary{}, err
	}
	entries := make([]statistics.Entry, 0, len(views))
	for _, v := range views {
		entries = append(entries, statistics.Entry{
			ItemID:   v.Item.ID,
			State:    v.state,
			Counters: v.counters,
			Stale:    v.Stale,
		})
	}
	return statistics.Summarize(moduleID, entries, a.now()), nil
}

func (a *Assembler) openSession(ctx context.Context, learnerID int64, sessionID string) (*session.Session, error) {
	s, err := a.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrInvalidSession)
	}
	if err != nil {
		return nil, fmt.Errorf("sessions.Get(%s) > %w", sessionID, err)
	}
	if s.LearnerID != learnerID {
		return nil, fmt.Errorf("session %s, learner %d: %w", sessionID, learnerID, ErrUnauthorized)
	}
	if !s.IsOpen() {
		return nil, fmt.Errorf("session %s has ended: %w", sessionID, ErrInvalidSession)
	}
	return s, nil
}

// loadModule checks access before existence, so an unauthorized learner sees
// ErrAccessDenied for every module ID. It then merges the module's items with
// the learner's progress using one bulk read per progress table.
func (a *Assembler) loadModule(ctx context.Context, learnerID, moduleID int64) ([]ItemView, error) {
	ok, err := a.access.HasAccess(ctx, learnerID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("access.HasAccess(learner=%d, module=%d) > %w", learnerID, moduleID, err)
	}
	if !ok {
		return nil, fmt.Errorf("learner %d, module %d: %w", learnerID, moduleID, ErrAccessDenied)
	}

	module, err := a.content.FindModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("content.FindModule(%d) > %w", moduleID, err)
	}
	if module == nil {
		return nil, fmt.Errorf("module %d: %w", moduleID, ErrModuleNotFound)
	}

	items, err := a.content.GetModuleItems(ctx, moduleID)
	if errors.Is(err, content.ErrModuleNotFound) {
		return nil, fmt.Errorf("module %d: %w", moduleID, ErrModuleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("content.GetModuleItems(%d) > %w", moduleID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	var (
		states   map[int64]scheduler.State
		counters map[int64]progress.Counters
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		states, err = a.progress.GetSchedulerStates(gctx, learnerID, itemIDs)
		if err != nil {
			return fmt.Errorf("progress.GetSchedulerStates() > %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counters, err = a.progress.GetProgressCounters(gctx, learnerID, itemIDs)
		if err != nil {
			return fmt.Errorf("progress.GetProgressCounters() > %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	retirement := a.scheduler.Config().RetirementIntervalDays
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		var st *scheduler.State
		if s, ok := states[item.ID]; ok {
			st = &s
		}
		var c *progress.Counters
		if pc, ok := counters[item.ID]; ok {
			c = &pc
		}
		views = append(views, newItemView(item, st, c, retirement))
	}
	return views, nil
}

func newItemView(item content.Item, st *scheduler.State, c *progress.Counters, retirementInterval int) ItemView {
	v := ItemView{
		Item:     item,
		state:    st,
		counters: c,
	}
	if st != nil {
		v.Interval = st.Interval
		v.EaseFactor = st.EaseFactor
		v.Repetition = st.Repetition
		nextReviewAt := st.NextReviewAt
		v.NextReviewAt = &nextReviewAt
		v.IsRetired = st.IsRetired
	}
	v.Box = scheduler.Box(v.Interval)
	if c != nil {
		v.LastResult = c.LastResult
		v.StrengthScore = scheduler.StrengthScore(c.CorrectCount, c.WrongCount, v.Interval, retirementInterval)
		v.Stale = c.ContentHash != item.ContentHash
	}
	return v
}

func filterViews(views []ItemView, mode session.Mode, now time.Time) []ItemView {
	switch mode {
	case session.ModeWrongOnly:
		return selectViews(views, func(v ItemView) bool {
			return v.LastResult == progress.ResultWrong
		})
	case session.ModeSM2:
		return selectViews(views, func(v ItemView) bool {
			return scheduler.IsDue(v.state, now)
		})
	default:
		return views
	}
}

func selectViews(views []ItemView, keep func(ItemView) bool) []ItemView {
	var selected []ItemView
	for _, v := range views {
		if keep(v) {
			selected = append(selected, v)
		}
	}
	return selected
}
