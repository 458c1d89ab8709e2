package app

import (
	"context"

	"go.uber.org/zap"

	"solarsynergy/backend/services/controller/internal/catalog"
	"solarsynergy/backend/services/controller/internal/clients"
	"solarsynergy/backend/services/controller/internal/config"
	httpserver "solarsynergy/backend/services/controller/internal/http"
	"solarsynergy/backend/services/controller/internal/http/handlers"
	"solarsynergy/backend/services/controller/internal/service"
	"solarsynergy/backend/services/controller/internal/wallet"
)

// App wires controller dependencies.
type App struct {
	server *httpserver.Server
	bridge *clients.BridgeClient
	engine *service.Engine
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ledger := wallet.NewLedger(cfg.Wallet.InitialBalance)

	bridgeClient := clients.NewBridgeClient(clients.Config{
		BaseURL:       cfg.Bridge.BaseURL,
		StatusPath:    cfg.Bridge.StatusPath,
		StationID:     cfg.Bridge.StationID,
		CheckTimeout:  cfg.CheckTimeout(),
		CheckInterval: cfg.CheckInterval(),
	}, clients.NewDefaultHTTPClient(cfg.CheckTimeout()), logger)

	engine := service.NewEngine(ledger, bridgeClient, logger, cfg.TickInterval())
	stations := catalog.New()

	sessionsHandler := handlers.NewSessionsHandler(engine, stations, logger)
	walletHandler := handlers.NewWalletHandler(ledger)

	routes := httpserver.Routes{
		Stations:          handlers.NewStationsHandler(stations),
		WalletBalance:     walletHandler.HandleBalance,
		WalletTopUp:       walletHandler.HandleTopUp,
		SessionStart:      sessionsHandler.HandleStart,
		SessionActive:     sessionsHandler.HandleActive,
		SessionToggleLock: sessionsHandler.HandleToggleLock,
		SessionEnd:        sessionsHandler.HandleEnd,
		Receipts:          sessionsHandler.HandleReceipts,
		BridgeStatus:      handlers.NewBridgeStatusHandler(bridgeClient),
		Health:            handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		bridge: bridgeClient,
		engine: engine,
		logger: logger,
	}, nil
}

// Run starts the health-check loop and the HTTP server. Both stop when ctx is
// cancelled; any active session is settled before returning.
func (a *App) Run(ctx context.Context) error {
	go a.bridge.Run(ctx)

	err := a.server.Run(ctx)
	a.engine.Shutdown()
	return err
}
