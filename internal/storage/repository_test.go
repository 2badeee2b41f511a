package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "expenses.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	tokyo := time.FixedZone("JST", 9*3600)
	e := core.Expense{
		ID:       "0b7e6a1c",
		Title:    "Coffee run",
		Category: core.CategoryFood,
		Amount:   decimal.RequireFromString("3.45"),
		Date:     time.Date(2025, 1, 15, 8, 30, 0, 123, tokyo),
	}
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != e.Title || got.Category != e.Category || !got.Amount.Equal(e.Amount) || !got.Date.Equal(e.Date) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, e)
	}

	e.Title = "Coffee and cake"
	e.Amount = decimal.RequireFromString("-1.5")
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Get(ctx, e.ID)
	if got.Title != "Coffee and cake" || !got.Amount.Equal(e.Amount) {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if err := repo.Update(ctx, core.Expense{ID: "nope", Amount: decimal.Zero}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRepositoryDuplicateIDIsStorageFailure(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	e := core.Expense{ID: "same", Title: "a", Category: core.CategoryOther, Amount: decimal.NewFromInt(1), Date: time.Now()}
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := repo.Insert(ctx, e)
	if !errors.Is(err, core.ErrStorage) {
		t.Fatalf("expected ErrStorage on duplicate id, got %v", err)
	}

	// The repository stays usable after a failed operation.
	e.ID = "other"
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("insert after failure: %v", err)
	}
	if all, _ := repo.List(ctx); len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
}

func TestSQLiteRepositoryListsInInsertionOrderAcrossReopen(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)

	dates := []time.Time{
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		e := core.Expense{ID: string(rune('a' + i)), Title: "t", Category: core.CategoryFood, Amount: decimal.NewFromInt(int64(i)), Date: d}
		if err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	list, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("unexpected list order: %+v", list)
	}
}
