package handlers

import (
	"net/http"

	"solarsynergy/backend/services/controller/internal/clients"
)

type bridgeStatusResponse struct {
	Status clients.ConnectivityStatus `json:"status"`
	Error  string                     `json:"error,omitempty"`
}

// NewBridgeStatusHandler returns GET /bridge/status handler reporting the
// controller's last known connectivity belief.
func NewBridgeStatusHandler(client *clients.BridgeClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, diag := client.Status()
		writeJSON(w, http.StatusOK, bridgeStatusResponse{Status: status, Error: diag})
	}
}
