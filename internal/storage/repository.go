package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.Repository on a SQLite file. Dates are
// kept as UTC unix nanoseconds and amounts as canonical decimal strings.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; the store serializes commits anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) error {
	err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		ID:           e.ID,
		Title:        e.Title,
		Category:     string(e.Category),
		Amount:       e.Amount.String(),
		DateUnixNano: e.Date.UTC().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("%w: insert expense: %w", core.ErrStorage, err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite", "id", e.ID)
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e core.Expense) error {
	n, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		Title:        e.Title,
		Category:     string(e.Category),
		Amount:       e.Amount.String(),
		DateUnixNano: e.Date.UTC().UnixNano(),
		ID:           e.ID,
	})
	if err != nil {
		return fmt.Errorf("%w: update expense: %w", core.ErrStorage, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete expense: %w", core.ErrStorage, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: get expense: %w", core.ErrStorage, err)
	}
	return toCore(row)
}

// List returns every expense in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %w", core.ErrStorage, err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toCore(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func toCore(row Expense) (core.Expense, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense %s has corrupt amount %q: %w", core.ErrStorage, row.ID, row.Amount, err)
	}
	return core.Expense{
		ID:       row.ID,
		Title:    row.Title,
		Category: core.Category(row.Category),
		Amount:   amount,
		Date:     time.Unix(0, row.DateUnixNano).UTC(),
	}, nil
}
