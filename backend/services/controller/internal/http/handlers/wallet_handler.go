package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"solarsynergy/backend/services/controller/internal/wallet"
)

// WalletHandler exposes the wallet balance and top-up.
type WalletHandler struct {
	ledger *wallet.Ledger
}

// NewWalletHandler builds handler set.
func NewWalletHandler(ledger *wallet.Ledger) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// HandleBalance handles GET /wallet.
func (h *WalletHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"balance": h.ledger.Balance()})
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
}

// HandleTopUp handles POST /wallet/topup.
func (h *WalletHandler) HandleTopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.ledger.TopUp(req.Amount); err != nil {
		if errors.Is(err, wallet.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		writeError(w, http.StatusInternalServerError, "top-up failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": h.ledger.Balance()})
}
