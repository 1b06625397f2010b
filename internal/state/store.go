package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
)

// Snapshot represents the latest data available to views.
type Snapshot struct {
	Items       []api.Item
	Loading     bool
	Err         string // empty when the last operation succeeded
	LastUpdated time.Time
}

// HasError reports whether the last resolved operation failed.
func (s Snapshot) HasError() bool {
	return s.Err != ""
}

// Find returns the cached item with the given id.
func (s Snapshot) Find(id int64) (api.Item, bool) {
	if i := indexOf(s.Items, id); i >= 0 {
		return s.Items[i], true
	}
	return api.Item{}, false
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger for failed operations.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMessages overrides the failure messages recorded in Snapshot.Err.
func WithMessages(m Messages) Option {
	return func(s *Store) {
		s.messages = m.withDefaults()
	}
}

// WithClock overrides the clock used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store owns the item collection and the loading/error flags. Operations are
// serialized: a second call waits until the first has resolved.
type Store struct {
	svc      api.ItemService
	logger   *zap.Logger
	messages Messages
	now      func() time.Time

	op sync.Mutex

	mu       sync.RWMutex
	snapshot Snapshot
	subs     map[int]chan Snapshot
	nextSub  int
}

// New builds a Store that performs its round trips through svc.
func New(svc api.ItemService, opts ...Option) *Store {
	s := &Store{
		svc:      svc,
		logger:   zap.NewNop(),
		messages: EnglishMessages,
		now:      time.Now,
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll replaces the collection with the server's list, in server order.
func (s *Store) FetchAll(ctx context.Context) ([]api.Item, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.start()
	items, err := s.svc.ListItems(ctx)
	if err != nil {
		return nil, s.fail(ErrFetchFailed, err)
	}
	s.finish(func(snap *Snapshot) {
		snap.Items = cloneItems(items)
	})
	return cloneItems(items), nil
}

// GetByID fetches one item without touching the collection.
func (s *Store) GetByID(ctx context.Context, id int64) (api.Item, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.start()
	item, err := s.svc.GetItem(ctx, id)
	if err != nil {
		return api.Item{}, s.fail(ErrFetchOneFailed, err, zap.Int64("item_id", id))
	}
	s.finish(nil)
	return item, nil
}

// Create submits dto and appends the server's item to the collection. A stale
// entry with the same id is dropped first so ids stay unique.
func (s *Store) Create(ctx context.Context, dto api.CreateItemDTO) (api.Item, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.start()
	item, err := s.svc.CreateItem(ctx, dto)
	if err != nil {
		return api.Item{}, s.fail(ErrCreateFailed, err)
	}
	s.finish(func(snap *Snapshot) {
		snap.Items = append(removeID(snap.Items, item.ID), item)
	})
	return item, nil
}

// Update submits dto for item id and replaces the cached entry in place. When
// the id is not cached the collection is left unchanged.
func (s *Store) Update(ctx context.Context, id int64, dto api.UpdateItemDTO) (api.Item, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.start()
	item, err := s.svc.UpdateItem(ctx, id, dto)
	if err != nil {
		return api.Item{}, s.fail(ErrUpdateFailed, err, zap.Int64("item_id", id))
	}
	s.finish(func(snap *Snapshot) {
		if i := indexOf(snap.Items, id); i >= 0 {
			snap.Items[i] = item
		}
	})
	return item, nil
}

// Delete removes item id on the server and every cached entry with that id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.start()
	if err := s.svc.DeleteItem(ctx, id); err != nil {
		return s.fail(ErrDeleteFailed, err, zap.Int64("item_id", id))
	}
	s.finish(func(snap *Snapshot) {
		snap.Items = removeID(snap.Items, id)
	})
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// Items returns a copy of the collection.
func (s *Store) Items() []api.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.snapshot.Items)
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Loading
}

// Err returns the failure message of the last operation, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Err
}

// Subscribe returns a channel that receives a snapshot after every state
// transition. The channel holds only the newest snapshot; a slow reader skips
// intermediate states. Call the returned function to stop and close the
// channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) start() {
	s.update(func(snap *Snapshot) {
		snap.Loading = true
		snap.Err = ""
	})
}

func (s *Store) finish(apply func(*Snapshot)) {
	s.update(func(snap *Snapshot) {
		if apply != nil {
			apply(snap)
		}
		snap.Loading = false
		snap.LastUpdated = s.now()
	})
}

func (s *Store) fail(kind, cause error, fields ...zap.Field) error {
	msg := s.messages.forKind(kind)
	s.update(func(snap *Snapshot) {
		snap.Err = msg
		snap.Loading = false
		snap.LastUpdated = s.now()
	})
	s.logger.Warn(kind.Error(), append(fields, zap.Error(cause))...)
	return fmt.Errorf("%w: %w", kind, cause)
}

// update applies fn under the write lock and publishes the result.
func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snapshot)
	if len(s.subs) == 0 {
		return
	}
	snap := s.cloneLocked()
	for _, ch := range s.subs {
		// Replace any unread snapshot so the channel always holds the newest.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	return snap
}

// cloneItems always returns a non-nil slice so an empty list stays a list.
func cloneItems(items []api.Item) []api.Item {
	dup := make([]api.Item, len(items))
	copy(dup, items)
	return dup
}

func indexOf(items []api.Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func removeID(items []api.Item, id int64) []api.Item {
	out := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
