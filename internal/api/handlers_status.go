package api

import (
	"net/http"

	"github.com/projecthelena/gitops-demo/internal/status"
)

// StatusHandler serves the application status and health endpoints.
type StatusHandler struct {
	svc *status.Service
}

// NewStatusHandler returns a StatusHandler stamping health payloads with svc's clock.
func NewStatusHandler(svc *status.Service) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// Root returns the fixed application status.
// @Summary      Application status
// @Description  Returns the fixed application status, message and version.
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status.Root())
}

// Health returns UP stamped with the current time.
// @Summary      Health check
// @Description  Returns UP with the current time in epoch milliseconds, encoded as a string.
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Health())
}
