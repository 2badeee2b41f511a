// Package store owns the canonical collection of expenses.
//
// Every mutation goes through a Repository before it returns, and all of them
// are serialized by a single commit lock. Snapshots for observers are taken
// under that lock and delivered after it is released, one commit at a time,
// so observers see commits in order and may read the store while handling
// one.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

type Store struct {
	// mu is the commit lock. It guards records and nextSeq.
	mu      sync.Mutex
	nextSeq uint64
	repo    Repository
	records []core.Expense // insertion order
	newID   func() string

	lmu       sync.Mutex
	nextSub   int
	listeners map[int]subscription

	// deliveries run in commit order: a commit waits until delivered equals
	// its sequence number
	dmu       sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

type subscription struct {
	order core.Order
	fn    Listener
}

type delivery struct {
	id       int
	fn       Listener
	snapshot []core.Expense
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator. Identifiers it returns must be
// unique for the lifetime of the repository.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New loads the current contents of repo and returns a store over it.
func New(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	records, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	s := &Store{
		repo:      repo,
		records:   records,
		newID:     uuid.NewString,
		listeners: make(map[int]subscription),
	}
	s.turn = sync.NewCond(&s.dmu)
	for _, opt := range opts {
		opt(s)
	}

	slog.InfoContext(ctx, "Expense store loaded",
		applog.FieldComponent, applog.ComponentStore,
		"count", len(records))

	return s, nil
}

// Create persists a new expense under a fresh identifier and returns it.
// Input is trusted: validation belongs to the form flow.
func (s *Store) Create(ctx context.Context, n core.NewExpense) (core.Expense, error) {
	s.mu.Lock()

	e := n.Build(s.newID())
	if err := s.repo.Insert(ctx, e); err != nil {
		s.mu.Unlock()
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.records = append(s.records, e)

	slog.InfoContext(ctx, "Expense created",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldOperation, applog.OpCreate,
		applog.FieldExpenseID, e.ID,
		applog.FieldCategory, string(e.Category),
		applog.FieldAmount, e.Amount.String())

	s.unlockAndPublish()
	return e, nil
}

// Update overwrites the non-nil fields of patch on the expense with the given
// identifier and returns the result. An empty patch commits nothing.
func (s *Store) Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, core.ErrNotFound)
	}
	if patch.IsEmpty() {
		e := s.records[i]
		s.mu.Unlock()
		return e, nil
	}

	updated := patch.Apply(s.records[i])
	if err := s.repo.Update(ctx, updated); err != nil {
		s.mu.Unlock()
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}
	s.records[i] = updated

	slog.InfoContext(ctx, "Expense updated",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, id)

	s.unlockAndPublish()
	return updated, nil
}

// Delete removes the expense with the given identifier permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete expense %s: %w", id, core.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)

	slog.InfoContext(ctx, "Expense deleted",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)

	s.unlockAndPublish()
	return nil
}

// Get returns the expense with the given identifier.
func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, core.ErrNotFound)
	}
	return s.records[i], nil
}

// Snapshot returns a copy of the current collection sorted by date in the
// given order.
func (s *Store) Snapshot(order core.Order) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(order)
}

// Observe registers fn and immediately delivers the current snapshot to it.
// fn then receives a new snapshot after every committed mutation until the
// returned cancel function is called. Cancel may be called more than once and
// from inside fn.
func (s *Store) Observe(order core.Order, fn Listener) (cancel func()) {
	s.mu.Lock()

	s.lmu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = subscription{order: order, fn: fn}
	s.lmu.Unlock()

	initial := delivery{id: id, fn: fn, snapshot: s.snapshot(order)}
	seq := s.nextSeq
	s.nextSeq++
	s.mu.Unlock()

	s.deliver(seq, []delivery{initial})

	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

// Observers returns the number of registered listeners.
func (s *Store) Observers() int {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	return len(s.listeners)
}

// unlockAndPublish must be called with s.mu held. It snapshots the
// collection for every listener, takes the next delivery turn and releases
// s.mu before calling the listeners.
func (s *Store) unlockAndPublish() {
	s.lmu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	pending := make([]delivery, 0, len(ids))
	for _, id := range ids {
		sub := s.listeners[id]
		pending = append(pending, delivery{id: id, fn: sub.fn, snapshot: s.snapshot(sub.order)})
	}
	s.lmu.Unlock()

	seq := s.nextSeq
	s.nextSeq++
	s.mu.Unlock()

	s.deliver(seq, pending)
}

func (s *Store) deliver(seq uint64, pending []delivery) {
	s.dmu.Lock()
	for s.delivered != seq {
		s.turn.Wait()
	}
	s.dmu.Unlock()

	defer func() {
		s.dmu.Lock()
		s.delivered++
		s.turn.Broadcast()
		s.dmu.Unlock()
	}()

	for _, d := range pending {
		if !s.subscribed(d.id) {
			continue
		}
		d.fn(d.snapshot)
	}
}

func (s *Store) subscribed(id int) bool {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	_, ok := s.listeners[id]
	return ok
}

func (s *Store) snapshot(order core.Order) []core.Expense {
	out := append([]core.Expense(nil), s.records...)
	if out == nil {
		out = []core.Expense{}
	}
	core.SortByDate(out, order)
	return out
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.records {
		if e.ID == id {
			return i
		}
	}
	return -1
}
