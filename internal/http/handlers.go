package http

import (
	"net/http"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	m := s.Metrics()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Requests:         m.TotalRequests,
		AvgResponseMicro: m.AverageResponseTime.Microseconds(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.String())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := core.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	mode, err := services.ParseAnalyticsMode(q.Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnalyticsResponse(s.views.Analytics(period, mode, s.now())))
}

// handleTips answers with the loader state even when the fetch failed; the
// error is part of that state.
func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	state, _ := s.tips.Load(r.Context())
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRefreshTips(w http.ResponseWriter, r *http.Request) {
	state, err := s.tips.Refresh(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), state)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSyncState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.State())
}

func (s *Server) handleSyncNow(w http.ResponseWriter, r *http.Request) {
	state, err := s.sync.SyncNow(r.Context(), s.now())
	if err != nil {
		writeJSON(w, statusFor(err), state)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldPath, r.URL.Path,
		applog.FieldClientIP, clientIP(r))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}
