package main

import (
	"context"
	"flag"
	"log"

	"quiz-admin/internal/config"
	"quiz-admin/internal/database"
	"quiz-admin/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(database.Up), "migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	dir := database.Direction(*direction)
	if dir != database.Up && dir != database.Down {
		l.Fatal("Unknown migration direction", zap.String("direction", *direction))
	}

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db.DB, cfg.DB.Driver, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
