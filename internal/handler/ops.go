package handler

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/rwdb/internal/rwdb"
)

// OpsHandler reports connection health for a shared Client.
type OpsHandler struct {
	mu     *sync.Mutex
	client *rwdb.Client
}

// NewOpsHandler creates an OpsHandler. Every call on client holds mu.
func NewOpsHandler(client *rwdb.Client, mu *sync.Mutex) *OpsHandler {
	return &OpsHandler{mu: mu, client: client}
}

type versionResponse struct {
	Mode    rwdb.Mode `json:"mode"`
	Version string    `json:"version"`
}

type statResponse struct {
	Mode rwdb.Mode `json:"mode"`
	Stat string    `json:"stat"`
}

// Healthz handles GET /healthz by asking the primary for its version.
func (h *OpsHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	v, err := h.client.ServerVersion(r.Context(), rwdb.Write)
	h.mu.Unlock()
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": v})
}

// Stat handles GET /stat/{mode}.
func (h *OpsHandler) Stat(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	h.mu.Lock()
	s, err := h.client.Stat(r.Context(), mode)
	h.mu.Unlock()
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statResponse{Mode: mode, Stat: s})
}

// Version handles GET /version/{mode}.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	h.mu.Lock()
	v, err := h.client.ServerVersion(r.Context(), mode)
	h.mu.Unlock()
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versionResponse{Mode: mode, Version: v})
}

func modeParam(w http.ResponseWriter, r *http.Request) (rwdb.Mode, bool) {
	mode := rwdb.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		writeError(w, http.StatusBadRequest, "mode must be read or write", "invalid_mode")
		return "", false
	}
	return mode, true
}
