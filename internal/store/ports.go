package store

import (
	"context"

	"spendlog/internal/core"
)

// Ports for the durable side of the store.
type (
	// Repository persists expenses keyed by identifier. Implementations return
	// core.ErrNotFound for missing identifiers and wrap every other failure in
	// core.ErrStorage.
	Repository interface {
		Insert(ctx context.Context, e core.Expense) error
		Update(ctx context.Context, e core.Expense) error
		Delete(ctx context.Context, id string) error
		Get(ctx context.Context, id string) (core.Expense, error)
		// List returns every expense in insertion order.
		List(ctx context.Context) ([]core.Expense, error)
	}

	// Listener receives a freshly copied snapshot after each committed
	// mutation. It runs synchronously on the committing goroutine after the
	// commit lock is released, so it may call Snapshot and Get. It must not
	// call Create, Update, Delete or Observe: those wait for the delivery in
	// progress to finish.
	Listener func(snapshot []core.Expense)
)
