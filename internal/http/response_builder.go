package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/tips"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status           string `json:"status"`
	Requests         int64  `json:"requests"`
	AvgResponseMicro int64  `json:"avg_response_us"`
}

type expenseResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Amount   string    `json:"amount"`
	Date     time.Time `json:"date"`
}

type summaryResponse struct {
	Total     string `json:"total"`
	ThisMonth string `json:"this_month"`
	Today     string `json:"today"`
	Count     int    `json:"count"`
}

type sectionResponse struct {
	Title    string            `json:"title"`
	Expenses []expenseResponse `json:"expenses"`
}

type listResponse struct {
	Summary      summaryResponse   `json:"summary"`
	Sections     []sectionResponse `json:"sections"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

type dailyTotalResponse struct {
	Day   string `json:"day"`
	Total string `json:"total"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type analyticsResponse struct {
	Period      string                  `json:"period"`
	PeriodTitle string                  `json:"period_title"`
	Mode        string                  `json:"mode"`
	Total       string                  `json:"total"`
	Count       int                     `json:"count"`
	Daily       []dailyTotalResponse    `json:"daily"`
	Categories  []categoryTotalResponse `json:"categories"`
	Empty       bool                    `json:"empty"`
}

func newExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		Title:    e.Title,
		Category: e.Category.String(),
		Amount:   core.FormatAmount(e.Amount),
		Date:     e.Date,
	}
}

func newExpenseResponses(records []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(records))
	for _, e := range records {
		out = append(out, newExpenseResponse(e))
	}
	return out
}

func newSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		Total:     core.FormatAmount(s.Total),
		ThisMonth: core.FormatAmount(s.ThisMonth),
		Today:     core.FormatAmount(s.Today),
		Count:     s.Count,
	}
}

// newListResponse keeps only non-empty sections, in Today, This Week, Older
// order.
func newListResponse(list services.ExpenseList) listResponse {
	resp := listResponse{
		Summary:      newSummaryResponse(list.Summary),
		Sections:     []sectionResponse{},
		Empty:        list.Empty,
		EmptyMessage: list.EmptyMessage,
	}
	sections := []struct {
		bucket  core.Bucket
		records []core.Expense
	}{
		{core.BucketToday, list.Sections.Today},
		{core.BucketThisWeek, list.Sections.ThisWeek},
		{core.BucketOlder, list.Sections.Older},
	}
	for _, sec := range sections {
		if len(sec.records) == 0 {
			continue
		}
		resp.Sections = append(resp.Sections, sectionResponse{
			Title:    sec.bucket.String(),
			Expenses: newExpenseResponses(sec.records),
		})
	}
	return resp
}

func newAnalyticsResponse(v services.AnalyticsView) analyticsResponse {
	resp := analyticsResponse{
		Period:      string(v.Period),
		PeriodTitle: v.Period.Title(),
		Mode:        string(v.Mode),
		Total:       core.FormatAmount(v.Summary.Total),
		Count:       v.Summary.Count,
		Daily:       make([]dailyTotalResponse, 0, len(v.DailyTotals)),
		Categories:  make([]categoryTotalResponse, 0, len(v.CategoryTotals)),
		Empty:       v.Empty,
	}
	for _, d := range v.DailyTotals {
		resp.Daily = append(resp.Daily, dailyTotalResponse{Day: d.Day.Format("2006-01-02"), Total: core.FormatAmount(d.Total)})
	}
	for _, c := range v.CategoryTotals {
		resp.Categories = append(resp.Categories, categoryTotalResponse{Category: c.Category.String(), Total: core.FormatAmount(c.Total)})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var tipsStatus *tips.StatusError
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSyncInProgress):
		return http.StatusConflict
	case errors.As(err, &tipsStatus), errors.Is(err, tips.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and renders the error as JSON.
// Internal details of 5xx storage errors are not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err,
			applog.FieldPath, r.URL.Path)
		if errors.Is(err, core.ErrStorage) {
			msg = core.ErrStorage.Error()
		}
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
