package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

const MaxTitleLength = 200

// ExpenseStore is the part of *store.Store the services depend on.
type ExpenseStore interface {
	Create(ctx context.Context, n core.NewExpense) (core.Expense, error)
	Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (core.Expense, error)
	Snapshot(order core.Order) []core.Expense
}

// ExpenseForm is the raw input of the add/edit form.
type ExpenseForm struct {
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Amount   string    `json:"amount"`
	Date     time.Time `json:"date"`
}

// ValidatedForm is an ExpenseForm whose fields have been parsed.
type ValidatedForm struct {
	Title    string
	Category core.Category
	Amount   decimal.Decimal
	Date     time.Time
}

// Validate checks the form and returns its parsed values. Every error wraps
// core.ErrInvalidInput and the field-specific sentinel.
func (f ExpenseForm) Validate() (ValidatedForm, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ValidatedForm{}, invalid(core.ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ValidatedForm{}, invalid(core.ErrTitleTooLong)
	}

	category, err := core.ParseCategory(strings.TrimSpace(f.Category))
	if err != nil {
		return ValidatedForm{}, invalid(core.ErrInvalidCategory)
	}

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return ValidatedForm{}, invalid(core.ErrInvalidAmount)
	}

	if f.Date.IsZero() {
		return ValidatedForm{}, invalid(core.ErrInvalidDate)
	}

	return ValidatedForm{Title: title, Category: category, Amount: amount, Date: f.Date}, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
}

// ExpenseService runs the form flow on top of the record store.
type ExpenseService struct {
	store  ExpenseStore
	logger *applog.StructuredLogger
}

func NewExpenseService(store ExpenseStore, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		store:  store,
		logger: applog.NewStructuredLogger(logger.WithComponent(applog.ComponentExpense)),
	}
}

// Add validates the form and creates a new expense.
func (s *ExpenseService) Add(ctx context.Context, form ExpenseForm) (core.Expense, error) {
	v, err := form.Validate()
	if err != nil {
		return core.Expense{}, err
	}

	e, err := s.store.Create(ctx, core.NewExpense{
		Title:    v.Title,
		Category: v.Category,
		Amount:   v.Amount,
		Date:     v.Date,
	})
	if err != nil {
		s.logger.LogError(ctx, "Failed to add expense", err, applog.ComponentExpense, applog.OpCreate, nil)
		return core.Expense{}, err
	}

	s.logger.LogExpenseSaved(ctx, applog.OpCreate, e.ID, e.Title, e.Amount.String(), e.Category.String())
	return e, nil
}

// Edit validates the form and overwrites every field of the expense with the
// given identifier. The identifier itself never changes. A zero form date
// keeps the stored date.
func (s *ExpenseService) Edit(ctx context.Context, id string, form ExpenseForm) (core.Expense, error) {
	if form.Date.IsZero() {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return core.Expense{}, err
		}
		form.Date = current.Date
	}

	v, err := form.Validate()
	if err != nil {
		return core.Expense{}, err
	}

	e, err := s.store.Update(ctx, id, core.ExpensePatch{
		Title:    &v.Title,
		Category: &v.Category,
		Amount:   &v.Amount,
		Date:     &v.Date,
	})
	if err != nil {
		s.logger.LogError(ctx, "Failed to edit expense", err, applog.ComponentExpense, applog.OpUpdate,
			applog.NewFields().WithExpense(id, v.Title, v.Amount.String(), v.Category.String()))
		return core.Expense{}, err
	}

	s.logger.LogExpenseSaved(ctx, applog.OpUpdate, e.ID, e.Title, e.Amount.String(), e.Category.String())
	return e, nil
}

// Remove deletes the expense with the given identifier.
func (s *ExpenseService) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.LogError(ctx, "Failed to remove expense", err, applog.ComponentExpense, applog.OpDelete, nil)
		return err
	}
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	return s.store.Get(ctx, id)
}
