package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/services"
)

const maxBodyBytes = 1 << 20

// errMalformedBody marks request bodies that could not be decoded at all.
var errMalformedBody = errors.New("malformed request body")

// RequestBodyParser reads a JSON object or a form-encoded body once and
// serves string fields from either.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", errMalformedBody, p.err)
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		// numbers stay json.Number so amounts keep every digit
		dec := json.NewDecoder(strings.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
		} else if dec.More() {
			p.err = fmt.Errorf("%w: trailing data after JSON object", errMalformedBody)
		}
		return p.err
	}

	if p.formData, p.err = url.ParseQuery(body); p.err != nil {
		p.err = fmt.Errorf("%w: %v", errMalformedBody, p.err)
	}
	return p.err
}

// Get returns a sanitized field value, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseExpenseForm reads title, category, amount and date from the body.
// Plain dates are read in loc. A missing date is left zero for the caller to
// fill: now when adding, the stored date when editing.
func ParseExpenseForm(w http.ResponseWriter, r *http.Request, loc *time.Location) (services.ExpenseForm, error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		return services.ExpenseForm{}, err
	}

	form := services.ExpenseForm{
		Title:    p.Get("title"),
		Category: p.Get("category"),
		Amount:   p.Get("amount"),
	}
	if raw := p.Get("date"); raw != "" {
		d, err := ParseDate(raw, loc)
		if err != nil {
			return services.ExpenseForm{}, err
		}
		form.Date = d
	}
	return form, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. Plain
// dates are midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %w: %q", core.ErrInvalidInput, core.ErrInvalidDate, s)
}

// ParseFilter reads the category chip and search text from the query string.
func ParseFilter(query url.Values) (core.Filter, error) {
	var f core.Filter
	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		c, err := core.ParseCategory(raw)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
		}
		f.Category = &c
	}
	f.Search = sanitizeInput(query.Get("q"))
	return f, nil
}
