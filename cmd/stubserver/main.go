package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inventrack/console/internal/stubserver"
	"github.com/inventrack/console/pkg/config"
	"github.com/inventrack/console/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", false, "load the demo dataset on startup")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "stubserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	server := stubserver.New(logg)
	if *seed {
		server.Seed()
		logg.Info(context.Background(), "demo dataset loaded")
	}

	addr := ":" + cfg.Stub.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting stub backend")

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(prometheus.NewRegistry()),
	}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "stub backend stopped unexpectedly", err)
		os.Exit(1)
	}
}
