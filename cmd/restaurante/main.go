package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/JulianVillasenor/restaurante/docs"
	"github.com/JulianVillasenor/restaurante/internal/app"
	"github.com/JulianVillasenor/restaurante/internal/config"
)

// @title Restaurante API
// @version 1.0
// @description Point-of-sale backend: floor plan, table tabs and invoicing.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
