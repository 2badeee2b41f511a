// Package core provides money parsing and handling utilities.
//
// Amounts are carried as decimal.Decimal so that sums over many expenses do
// not accumulate binary floating point error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed amount to a decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted and
// surrounding whitespace is ignored. The sign is not restricted: the store
// keeps refunds and corrections as typed. Exponent notation is rejected
// because no amount field in a form produces it.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount(" 12,5 ") -> 12.5, nil
//	ParseAmount("-3")     -> -3, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") > 0 {
		if strings.Contains(s, ".") {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two fractional digits for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
