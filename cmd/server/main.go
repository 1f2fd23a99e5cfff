package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/carebook/carebook/internal/app"
	"github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/logger"
	"github.com/carebook/carebook/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	handler := routes.SetupRoutes(app)
	slog.Info("server starting",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"backend", app.Store.Backend,
		"url", "http://localhost:"+cfg.Port,
	)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
