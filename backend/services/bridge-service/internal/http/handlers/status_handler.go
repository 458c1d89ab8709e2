package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solarsynergy/backend/services/bridge-service/internal/store"
)

// StatusHandler serves the shared status path: the actuator polls it with GET,
// the controlling app posts intent changes, browsers probe it with OPTIONS.
type StatusHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewStatusHandler builds the handler around an injected intent store.
func NewStatusHandler(s *store.Store, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		store:  s,
		logger: logger,
	}
}

type commandRequest struct {
	// ID is the station identifier the app includes; the bridge serves a
	// single actuator and ignores it.
	ID      string `json:"id"`
	Command string `json:"command"`
}

// Handle dispatches GET/POST/OPTIONS on the status path.
func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	setNoCacheHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.handleCommand(w, r)
	case http.MethodGet:
		h.handlePoll(w)
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePoll returns the current intent as a bare token. The actuator parses
// the body literally, so the response is plain text with caching disabled.
func (h *StatusHandler) handlePoll(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.store.Get()))
}

func (h *StatusHandler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Command")
		return
	}

	intent, ok := store.ParseIntent(req.Command)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid Command")
		return
	}

	current := h.store.Set(intent)
	h.logger.Info("bridge intent changed", zap.String("intent", string(current)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"state":     current,
		"timestamp": time.Now().UnixMilli(),
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// setNoCacheHeaders disables caching at every layer. The actuator is
// latency-sensitive and must never see a stale intent from a proxy or CDN.
func setNoCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0, s-maxage=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Surrogate-Control", "no-store")
}
