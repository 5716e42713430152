package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type UserHandler struct {
	clock ports.Clock
}

func NewUserHandler(clock ports.Clock) *UserHandler {
	return &UserHandler{
		clock: clock,
	}
}

type meResponse struct {
	*domain.Session
	Records   int     `json:"records"`
	ExpiresIn float64 `json:"expires_in_seconds"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	writeJSON(w, r, http.StatusOK, meResponse{
		Session:   session,
		Records:   len(session.Records),
		ExpiresIn: session.ExpiresAt.Sub(h.clock.Now()).Round(time.Second).Seconds(),
	})
}
