package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"solarsynergy/backend/services/controller/internal/catalog"
	"solarsynergy/backend/services/controller/internal/models"
	"solarsynergy/backend/services/controller/internal/service"
	"solarsynergy/backend/services/controller/internal/wallet"
)

// SessionsHandler exposes the session lifecycle over HTTP.
type SessionsHandler struct {
	engine  *service.Engine
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewSessionsHandler builds handler set.
func NewSessionsHandler(engine *service.Engine, cat *catalog.Catalog, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{
		engine:  engine,
		catalog: cat,
		logger:  logger,
	}
}

type startSessionRequest struct {
	StationID            int     `json:"station_id"`
	Mode                 string  `json:"mode"`
	SlotID               string  `json:"slot_id"`
	DurationLimitSeconds int     `json:"duration_limit_seconds"`
	PreAuth              float64 `json:"pre_auth"`
}

// HandleStart handles POST /sessions/start.
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	station, ok := h.catalog.ByID(req.StationID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown station")
		return
	}
	mode, ok := models.ParseChargingMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be ECO or TURBO")
		return
	}
	if req.PreAuth <= 0 {
		writeError(w, http.StatusBadRequest, "pre_auth must be positive")
		return
	}

	session, err := h.engine.Start(service.StartInput{
		Station:              station,
		Mode:                 mode,
		SlotID:               req.SlotID,
		DurationLimitSeconds: req.DurationLimitSeconds,
		PreAuth:              req.PreAuth,
	})
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, "Insufficient balance.")
		return
	case errors.Is(err, service.ErrPreAuthTooLow):
		writeError(w, http.StatusBadRequest, "pre_auth does not cover the session")
		return
	case errors.Is(err, service.ErrSessionActive):
		writeError(w, http.StatusConflict, "a session is already active")
		return
	case err != nil:
		h.logger.Error("start session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// HandleActive handles GET /sessions/active.
func (h *SessionsHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	session, ok := h.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleToggleLock handles POST /sessions/toggle-lock.
func (h *SessionsHandler) HandleToggleLock(w http.ResponseWriter, r *http.Request) {
	locked, err := h.engine.ToggleLock()
	if err != nil {
		writeError(w, http.StatusConflict, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"locked": locked})
}

// HandleEnd handles POST /sessions/end.
func (h *SessionsHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.engine.End()
	if err != nil {
		h.logger.Error("end session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	if receipt == nil {
		// Ending with nothing active is a harmless no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// HandleReceipts handles GET /receipts.
func (h *SessionsHandler) HandleReceipts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Receipts())
}
