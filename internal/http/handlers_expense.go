package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(s.views.ListView(filter, s.now())))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseResponse(e))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	form, err := ParseExpenseForm(w, r, s.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if form.Date.IsZero() {
		form.Date = s.now()
	}
	e, err := s.expenses.Add(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/expenses/"+e.ID)
	writeJSON(w, http.StatusCreated, newExpenseResponse(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	form, err := ParseExpenseForm(w, r, s.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.expenses.Edit(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseResponse(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStreamExpenses sends the sorted collection as a server-sent event on
// connect and again after every committed mutation. Slow clients only ever
// see the latest snapshot.
func (s *Server) handleStreamExpenses(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	order := core.ParseOrder(r.URL.Query().Get("order"))
	logger := applog.FromContext(r.Context())

	updates := make(chan []core.Expense, 1)
	cancel := s.live.Observe(order, func(snapshot []core.Expense) {
		// runs on the committing goroutine: never block
		for {
			select {
			case updates <- snapshot:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger.DebugContext(r.Context(), "Expense stream opened", applog.FieldOperation, applog.OpObserve, "order", order.String())

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.shutdownCh:
			return
		case snapshot := <-updates:
			data, err := json.Marshal(newExpenseResponses(snapshot))
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to encode snapshot", applog.FieldError, err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: expenses\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
