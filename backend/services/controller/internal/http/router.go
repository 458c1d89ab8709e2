package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Stations          http.HandlerFunc
	WalletBalance     http.HandlerFunc
	WalletTopUp       http.HandlerFunc
	SessionStart      http.HandlerFunc
	SessionActive     http.HandlerFunc
	SessionToggleLock http.HandlerFunc
	SessionEnd        http.HandlerFunc
	Receipts          http.HandlerFunc
	BridgeStatus      http.HandlerFunc
	Health            http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Stations != nil {
		mux.Handle("/stations", method(http.MethodGet, routes.Stations))
	}
	if routes.WalletBalance != nil {
		mux.Handle("/wallet", method(http.MethodGet, routes.WalletBalance))
	}
	if routes.WalletTopUp != nil {
		mux.Handle("/wallet/topup", method(http.MethodPost, routes.WalletTopUp))
	}
	if routes.SessionStart != nil {
		mux.Handle("/sessions/start", method(http.MethodPost, routes.SessionStart))
	}
	if routes.SessionActive != nil {
		mux.Handle("/sessions/active", method(http.MethodGet, routes.SessionActive))
	}
	if routes.SessionToggleLock != nil {
		mux.Handle("/sessions/toggle-lock", method(http.MethodPost, routes.SessionToggleLock))
	}
	if routes.SessionEnd != nil {
		mux.Handle("/sessions/end", method(http.MethodPost, routes.SessionEnd))
	}
	if routes.Receipts != nil {
		mux.Handle("/receipts", method(http.MethodGet, routes.Receipts))
	}
	if routes.BridgeStatus != nil {
		mux.Handle("/bridge/status", method(http.MethodGet, routes.BridgeStatus))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
