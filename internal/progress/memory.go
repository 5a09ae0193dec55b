package progress

import (
	"context"
	"slices"
	"sync"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

type pairKey struct {
	learnerID int64
	itemID    int64
}

// MemoryStore is an in-process Store. Each (learner, item) pair has its own
// lock, so updates to different pairs never wait for each other.
type MemoryStore struct {
	mu          sync.Mutex
	locks       map[pairKey]*sync.Mutex
	states      map[pairKey]scheduler.State
	counters    map[pairKey]Counters
	events      []AnswerEvent
	nextEventID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:    make(map[pairKey]*sync.Mutex),
		states:   make(map[pairKey]scheduler.State),
		counters: make(map[pairKey]Counters),
	}
}

func (s *MemoryStore) GetSchedulerStates(_ context.Context, learnerID int64, itemIDs []int64) (map[int64]scheduler.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[int64]scheduler.State)
	for _, id := range itemIDs {
		if st, ok := s.states[pairKey{learnerID, id}]; ok {
			result[id] = st
		}
	}
	return result, nil
}

func (s *MemoryStore) GetProgressCounters(_ context.Context, learnerID int64, itemIDs []int64) (map[int64]Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[int64]Counters)
	for _, id := range itemIDs {
		if c, ok := s.counters[pairKey{learnerID, id}]; ok {
			result[id] = c
		}
	}
	return result, nil
}

func (s *MemoryStore) Update(ctx context.Context, learnerID, itemID int64, fn func(ctx context.Context, tx Tx) error) error {
	key := pairKey{learnerID, itemID}

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	tx := &memoryTx{key: key}
	s.mu.Lock()
	if st, ok := s.states[key]; ok {
		tx.state = &st
	}
	if c, ok := s.counters[key]; ok {
		tx.counters = &c
	}
	s.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.stateDirty {
		s.states[key] = *tx.state
	}
	if tx.countersDirty {
		s.counters[key] = *tx.counters
	}
	for _, ev := range tx.events {
		s.nextEventID++
		ev.ID = s.nextEventID
		s.events = append(s.events, ev)
	}
	return nil
}

// Answers returns a copy of the answer log in append order.
func (s *MemoryStore) Answers() []AnswerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

type memoryTx struct {
	key           pairKey
	state         *scheduler.State
	counters      *Counters
	events        []AnswerEvent
	stateDirty    bool
	countersDirty bool
}

func (tx *memoryTx) SchedulerState(context.Context) (*scheduler.State, error) {
	if tx.state == nil {
		return nil, nil
	}
	st := *tx.state
	return &st, nil
}

func (tx *memoryTx) Counters(context.Context) (*Counters, error) {
	if tx.counters == nil {
		return nil, nil
	}
	c := *tx.counters
	return &c, nil
}

func (tx *memoryTx) AppendAnswer(_ context.Context, event *AnswerEvent) error {
	event.LearnerID = tx.key.learnerID
	event.ItemID = tx.key.itemID
	tx.events = append(tx.events, *event)
	return nil
}

func (tx *memoryTx) UpsertSchedulerState(_ context.Context, state scheduler.State) error {
	tx.state = &state
	tx.stateDirty = true
	return nil
}

func (tx *memoryTx) UpsertProgressCounters(_ context.Context, counters Counters) error {
	counters.LearnerID = tx.key.learnerID
	counters.ItemID = tx.key.itemID
	tx.counters = &counters
	tx.countersDirty = true
	return nil
}
