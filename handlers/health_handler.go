package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger проверяет доступность хранилища; для in-memory режима передаётся nil.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health godoc
// @Summary Проверка состояния сервиса
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	storage := "memory"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			errorResponse(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		storage = "postgres"
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "storage": storage, "version": h.version}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
