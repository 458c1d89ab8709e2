package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	// Status carries GET (actuator poll), POST (app command) and OPTIONS
	// (preflight) on one path, so it dispatches methods itself.
	Status     http.HandlerFunc
	StatusPath string
	Health     http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Status != nil {
		path := routes.StatusPath
		if path == "" {
			path = "/api/status"
		}
		mux.Handle(path, routes.Status)
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
