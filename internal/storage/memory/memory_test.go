package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := core.Expense{ID: "a", Title: "t", Category: core.CategoryFood, Amount: decimal.NewFromInt(3), Date: time.Now()}
	if err := s.Insert(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, e); !errors.Is(err, core.ErrStorage) {
		t.Fatalf("duplicate insert should fail with ErrStorage, got %v", err)
	}

	e.Title = "changed"
	if err := s.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || got.Title != "changed" {
		t.Fatalf("unexpected get: %+v %v", got, err)
	}

	if err := s.Update(ctx, core.Expense{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := s.List(ctx); len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestListIsInsertionOrderedCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"x", "y", "z"} {
		_ = s.Insert(ctx, core.Expense{ID: id, Date: time.Now()})
	}
	list, _ := s.List(ctx)
	if len(list) != 3 || list[0].ID != "x" || list[2].ID != "z" {
		t.Fatalf("unexpected order: %+v", list)
	}
	list[0].ID = "mutated"
	again, _ := s.List(ctx)
	if again[0].ID != "x" {
		t.Fatalf("List exposed internal slice")
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	if list, _ := s.List(context.Background()); len(list) != 0 {
		t.Fatalf("expected empty store when seed is missing")
	}

	content := "title,category,amount,date\n" +
		"# comment\n" +
		"Coffee,Food,3.50,2025-01-15\n" +
		"Bad amount,Food,abc,2025-01-15\n" +
		",Food,1,2025-01-15\n" +
		"Bus,Transport,\"2,10\",2025-01-14\n" +
		"Short,Food\n"
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s = NewFromFiles(dir)
	list, _ := s.List(context.Background())
	if len(list) != 2 {
		t.Fatalf("expected 2 seeded expenses, got %+v", list)
	}
	if list[0].Title != "Coffee" || !list[0].Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected first seed: %+v", list[0])
	}
	if list[1].Category != core.CategoryTransport || !list[1].Amount.Equal(decimal.RequireFromString("2.1")) {
		t.Fatalf("unexpected second seed: %+v", list[1])
	}
	if list[0].ID == "" || list[0].ID == list[1].ID {
		t.Fatalf("seeded expenses need distinct ids")
	}
}
