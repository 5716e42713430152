package http

import (
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

// DashboardHandler serves the precomputed dashboard views over the
// session's record set.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	view, err := h.service.Overview(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *DashboardHandler) Votes(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	view, err := h.service.Voting(r.Context(), session, votingInput(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *DashboardHandler) Counting(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	view, err := h.service.Counting(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *DashboardHandler) Prediction(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	prediction, err := h.service.Prediction(r.Context(), session, r.URL.Query().Get("model"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, prediction)
}

func (h *DashboardHandler) VoteShare(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	view, err := h.service.VoteShare(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *DashboardHandler) Regions(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	view, err := h.service.RegionalComparison(r.Context(), session, queryList(r, "region"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *DashboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	records, err := h.service.Records(r.Context(), session, votingInput(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

func votingInput(r *http.Request) ports.VotingInput {
	q := r.URL.Query()
	return ports.VotingInput{
		Region: q.Get("region"),
		Party:  q.Get("party"),
	}
}
