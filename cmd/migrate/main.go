package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bizorder/backend/internal/infrastructure/config"
	"github.com/bizorder/backend/internal/infrastructure/logger"
	"github.com/bizorder/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		dir  = flag.String("dir", "migrations", "directory holding the SQL migrations")
		down = flag.Bool("down", false, "roll back the most recent migration instead of applying")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	runner, err := migration.NewRunner(*dir, cfg.Database.DSN(), log)
	if err != nil {
		log.Fatal("Failed to initialize migrations", zap.Error(err))
	}
	defer func() {
		if err := runner.Close(); err != nil {
			log.Error("Error closing migration runner", zap.Error(err))
		}
	}()

	if *down {
		if err := runner.Down(); err != nil {
			log.Fatal("Rollback failed", zap.Error(err))
		}
		return
	}
	if err := runner.Up(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}
