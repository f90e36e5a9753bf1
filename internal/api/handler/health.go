package handler

import (
	"net/http"

	"github.com/mcoot/deadnumber/internal/api/response"
)

// Stats reports live server counters
type Stats interface {
	RoomSource
	SessionCount() int
}

// AccountCounter reports the number of registered accounts
type AccountCounter interface {
	Count() int
}

// HealthHandler reports liveness and a few counters
type HealthHandler struct {
	stats    Stats
	accounts AccountCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(stats Stats, accounts AccountCounter) *HealthHandler {
	return &HealthHandler{stats: stats, accounts: accounts}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:   "ok",
		Sessions: h.stats.SessionCount(),
		Rooms:    len(h.stats.Rooms()),
		Accounts: h.accounts.Count(),
	})
}
