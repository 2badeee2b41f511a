package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

const (
	// OrderDescending lists the newest expense first. It is the store-wide default.
	OrderDescending Order = iota
	// OrderAscending lists the oldest expense first, as analytics consumes it.
	OrderAscending
)

type (
	// Category is the label an expense is filed under. The store keeps whatever
	// label it is given; only the form flow restricts it to Categories().
	Category string

	// Order selects how a snapshot is sorted by date.
	Order int

	Expense struct {
		ID       string
		Title    string
		Category Category
		Amount   decimal.Decimal
		Date     time.Time
	}

	// NewExpense carries the fields supplied when an expense is created.
	NewExpense struct {
		Title    string
		Category Category
		Amount   decimal.Decimal
		Date     time.Time
	}

	// ExpensePatch holds the fields to overwrite on update. Nil fields are left
	// unchanged.
	ExpensePatch struct {
		Title    *string
		Category *Category
		Amount   *decimal.Decimal
		Date     *time.Time
	}
)

var (
	ErrNotFound     = errors.New("expense not found")
	ErrStorage      = errors.New("storage failure")
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
)

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryShopping,
	CategoryEntertainment,
	CategoryOther,
}

// Categories returns the closed set of categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s against the closed set, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// IsValid reports whether c belongs to the closed set.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func (o Order) String() string {
	if o == OrderAscending {
		return "asc"
	}
	return "desc"
}

// ParseOrder accepts "asc" or "desc"; anything else yields the default.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, "asc") || strings.EqualFold(s, "ascending") {
		return OrderAscending
	}
	return OrderDescending
}

// Build materializes a new expense under the given identifier.
func (n NewExpense) Build(id string) Expense {
	return Expense{
		ID:       id,
		Title:    n.Title,
		Category: n.Category,
		Amount:   n.Amount,
		Date:     n.Date,
	}
}

// Apply returns a copy of e with the patch fields overwritten. The identifier
// never changes.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Amount == nil && p.Date == nil
}
