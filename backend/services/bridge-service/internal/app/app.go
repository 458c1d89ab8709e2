package app

import (
	"context"

	"go.uber.org/zap"

	"solarsynergy/backend/services/bridge-service/internal/config"
	httpserver "solarsynergy/backend/services/bridge-service/internal/http"
	"solarsynergy/backend/services/bridge-service/internal/http/handlers"
	"solarsynergy/backend/services/bridge-service/internal/store"
)

// App wires bridge-service dependencies.
type App struct {
	server *httpserver.Server
	logger *zap.Logger
}

// New constructs the application graph. The intent store is built here and
// injected; it lives exactly as long as the process.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	intentStore := store.New()
	statusHandler := handlers.NewStatusHandler(intentStore, logger)

	routes := httpserver.Routes{
		Status:     statusHandler.Handle,
		StatusPath: cfg.Status.Path,
		Health:     handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	logger.Info("bridge intent initialized",
		zap.String("intent", string(intentStore.Get())),
		zap.String("status_path", cfg.Status.Path),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}
