// Command reset-password replaces the secret of a staff member identified by CPF.
//
//	reset-password -cpf 529.982.247-25 -secret 1234
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"foodstack-pos/internal/config"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/service"
	"foodstack-pos/pkg/database"
	"foodstack-pos/pkg/logging"
)

func main() {
	cpf := flag.String("cpf", "", "staff CPF, formatted or digits only")
	secret := flag.String("secret", "", "new secret (at least 4 characters)")
	flag.Parse()

	// 1. Load Config
	cfg := config.Load()
	logger := logging.New(cfg.App.LogLevel)

	if *cpf == "" || *secret == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	// 3. Reset
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	users := service.NewUserService(repository.NewUserRepo(db))
	err = users.ResetSecret(ctx, *cpf, *secret)
	cancel()
	if err != nil {
		logger.Error("reset failed", "cpf", *cpf, "error", err)
		os.Exit(1)
	}

	logger.Info("secret reset", "cpf", *cpf)
}
