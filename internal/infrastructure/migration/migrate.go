package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner applies SQL migrations from a directory against a database
type Runner struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewRunner creates a migration runner. dir is a path on disk holding the
// numbered .up.sql / .down.sql pairs; dsn is a postgres URL.
func NewRunner(dir, dsn string, logger *zap.Logger) (*Runner, error) {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return &Runner{m: m, logger: logger}, nil
}

// Up applies all pending migrations
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, dirty, err := r.m.Version()
	if err != nil {
		return err
	}
	r.logger.Info("migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Down rolls back the most recent migration
func (r *Runner) Down() error {
	if err := r.m.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.logger.Info("rolled back one migration")
	return nil
}

// Close releases the runner's source and database handles
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
