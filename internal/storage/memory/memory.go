package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/core"
)

// SeedFile is the optional CSV read by NewFromFiles. Columns are
// title,category,amount,date with the date as YYYY-MM-DD.
const SeedFile = "seed_expenses.csv"

// Store keeps expenses in insertion order in process memory.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New(seed ...core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

// NewFromFiles seeds a store from base/seed_expenses.csv. A missing file gives
// an empty store; malformed rows are skipped.
func NewFromFiles(base string) *Store {
	return New(readSeed(filepath.Join(base, SeedFile))...)
}

func (s *Store) Insert(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("%w: duplicate expense id %s", core.ErrStorage, e.ID)
	}
	s.items = append(s.items, e)
	return nil
}

func (s *Store) Update(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(e.ID)
	if i < 0 {
		return core.ErrNotFound
	}
	s.items[i] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.ErrNotFound
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, core.ErrNotFound
	}
	return s.items[i], nil
}

// List returns a copy of every expense in insertion order.
func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...), nil
}

func (s *Store) Close() error { return nil }

func (s *Store) indexOf(id string) int {
	for i, e := range s.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func readSeed(path string) []core.Expense {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		slog.Warn("Failed to read seed file", "path", path, "error", err)
		return nil
	}

	var out []core.Expense
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "title") {
			continue
		}
		e, err := parseRow(row)
		if err != nil {
			slog.Warn("Skipping seed row", "path", path, "row", i+1, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseRow(row []string) (core.Expense, error) {
	if len(row) != 4 {
		return core.Expense{}, fmt.Errorf("expected 4 columns, got %d", len(row))
	}
	title := strings.TrimSpace(row[0])
	if title == "" {
		return core.Expense{}, core.ErrEmptyTitle
	}
	amount, err := core.ParseAmount(row[2])
	if err != nil {
		return core.Expense{}, err
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[3]), time.Local)
	if err != nil {
		return core.Expense{}, core.ErrInvalidDate
	}
	return core.Expense{
		ID:       uuid.NewString(),
		Title:    title,
		Category: core.Category(strings.TrimSpace(row[1])),
		Amount:   amount,
		Date:     date,
	}, nil
}
