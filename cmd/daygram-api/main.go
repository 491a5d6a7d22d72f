package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/config"
	"github.com/daygram-app/daygram-api/internal/logger"
	"github.com/daygram-app/daygram-api/internal/router"
	"github.com/daygram-app/daygram-api/internal/setup"
)

func main() {
	var configFolder string
	var addr string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&addr, "addr", ":8080", "address to listen on")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	defer zap.S().Sync()

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		zap.S().Fatalw("failed to set up dependencies", "error", err)
	}
	defer deps.Storage.Cleanup()

	if err := deps.Janitor.Start(); err != nil {
		zap.S().Fatalw("failed to start invite janitor", "error", err, "spec", cfg.Public.InvitePurgeSpec)
	}
	defer deps.Janitor.Stop()

	r := router.New(deps)

	zap.S().Infow("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}
