package main

import (
	"os"
	"os/signal"
	"syscall"

	"foodstack-pos/internal/app"
	"foodstack-pos/internal/config"
	"foodstack-pos/pkg/database"
	"foodstack-pos/pkg/logging"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	logger := logging.New(cfg.App.LogLevel)

	// 2. Setup Database
	db, err := database.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// 3. Wire components
	a := app.New(cfg, db, logger)

	// 4. Serve
	go func() {
		logger.Info("listening", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := a.Fiber.Listen(":" + cfg.App.Port); err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := a.Close(); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
