package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

const (
	StatusSyncing    = "Syncing..."
	lastSyncLayout   = "Jan 2, 2006 at 3:04 PM"
	lastSyncPrefix   = "Last sync: "
	syncFailedPrefix = "Sync failed: "
)

// ErrSyncInProgress is returned by SyncNow while another sync is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Syncer pushes a snapshot of the collection somewhere else.
type Syncer interface {
	Sync(ctx context.Context, records []core.Expense) error
}

// StubSyncer pretends to sync by waiting Delay.
type StubSyncer struct {
	Delay time.Duration
}

func (s StubSyncer) Sync(ctx context.Context, _ []core.Expense) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SyncState is what the settings screen shows about sync.
type SyncState struct {
	Syncing    bool      `json:"syncing"`
	Status     string    `json:"status,omitempty"`
	LastSynced time.Time `json:"last_synced,omitempty"`
}

// SyncService runs at most one sync at a time.
type SyncService struct {
	store  ExpenseStore
	syncer Syncer
	logger *applog.Logger

	mu    sync.Mutex
	state SyncState
}

func NewSyncService(store ExpenseStore, syncer Syncer, logger *applog.Logger) *SyncService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncService{
		store:  store,
		syncer: syncer,
		logger: logger.WithComponent(applog.ComponentSync),
	}
}

func (s *SyncService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SyncNow sends the current snapshot through the syncer and records the
// outcome as of now.
func (s *SyncService) SyncNow(ctx context.Context, now time.Time) (SyncState, error) {
	s.mu.Lock()
	if s.state.Syncing {
		st := s.state
		s.mu.Unlock()
		return st, ErrSyncInProgress
	}
	s.state.Syncing = true
	s.state.Status = StatusSyncing
	s.mu.Unlock()

	records := s.store.Snapshot(core.OrderDescending)
	s.logger.InfoContext(ctx, "Sync started", applog.FieldOperation, applog.OpSync, "count", len(records))

	err := s.syncer.Sync(ctx, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Syncing = false
	if err != nil {
		s.state.Status = syncFailedPrefix + err.Error()
		s.logger.ErrorContext(ctx, "Sync failed", applog.FieldOperation, applog.OpSync, applog.FieldError, err)
		return s.state, fmt.Errorf("sync: %w", err)
	}
	s.state.LastSynced = now
	s.state.Status = lastSyncPrefix + now.Format(lastSyncLayout)
	s.logger.InfoContext(ctx, "Sync finished", applog.FieldOperation, applog.OpSync, "count", len(records))
	return s.state, nil
}
