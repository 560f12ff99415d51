package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/infrastructure/cache"
	"github.com/bizorder/backend/internal/infrastructure/config"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/bizorder/backend/internal/infrastructure/logger"
	"github.com/bizorder/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sync runs the two reconciliation units from the command line: a
// reference-code resync from the configured feed, and optionally a
// dependency-ordered dataset load from a JSON bundle file.
func main() {
	var (
		bundlePath = flag.String("bundle", "", "path to a dataset bundle JSON file to load after the resync")
		skipResync = flag.Bool("skip-resync", false, "skip the reference-code resync")
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

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	lock, err := cache.NewRedisReconcileLock(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Sync.LockTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := lock.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	var seedOrgID uuid.UUID
	if cfg.Sync.SeedOrganizationID != "" {
		seedOrgID, err = uuid.Parse(cfg.Sync.SeedOrganizationID)
		if err != nil {
			log.Fatal("Invalid sync.seed_organization_id", zap.Error(err))
		}
	}

	engine := reconcile.NewEngine(
		persistence.NewGormUnitRunner(db.DB),
		lock,
		reconcile.EngineConfig{
			ResyncTimeout:      cfg.Sync.ResyncTimeout,
			LoadTimeout:        cfg.Sync.LoadTimeout,
			SeedOrganizationID: seedOrgID,
		},
		log,
	)

	ctx := context.Background()

	if !*skipResync {
		source, err := feed.NewSource(&cfg.Feed, log)
		if err != nil {
			log.Fatal("Failed to configure feed source", zap.Error(err))
		}
		report, err := engine.SyncFromFeed(ctx, source)
		if err != nil {
			log.Fatal("Reference resync failed", zap.Error(err))
		}
		log.Info("Reference resync finished",
			zap.String("branch", string(report.Branch)),
			zap.Int("rows_deleted", report.RowsDeleted),
			zap.Int("rows_inserted", report.RowsInserted),
		)
	}

	if *bundlePath != "" {
		f, err := os.Open(*bundlePath)
		if err != nil {
			log.Fatal("Failed to open bundle file", zap.Error(err))
		}
		bundle, err := reconcile.ParseBundle(f)
		_ = f.Close()
		if err != nil {
			log.Fatal("Failed to parse bundle", zap.Error(err))
		}

		report, err := engine.LoadDataset(ctx, bundle)
		if err != nil {
			log.Fatal("Dataset load failed", zap.Error(err))
		}
		log.Info("Dataset load finished",
			zap.Int("inserted", report.TotalInserted()),
			zap.Int("totals_recomputed", report.Recomputed),
		)
	}
}
