package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/infrastructure/cache"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine coordinates the two reconciliation operations. Each runs as its
// own bounded unit of work under the shared lease: the reference resync
// and the dataset load read and write overlapping rows, so they are never
// allowed to overlap in time. A resync failure does not block a later
// load and vice versa.
type Engine struct {
	units         UnitRunner
	lock          cache.ReconcileLock
	loader        *Loader
	logger        *zap.Logger
	resyncTimeout time.Duration
	loadTimeout   time.Duration
}

// EngineConfig carries the duration bounds and the seed organization
type EngineConfig struct {
	ResyncTimeout      time.Duration
	LoadTimeout        time.Duration
	SeedOrganizationID uuid.UUID
}

// NewEngine creates a reconciliation engine
func NewEngine(units UnitRunner, lock cache.ReconcileLock, cfg EngineConfig, logger *zap.Logger) *Engine {
	return &Engine{
		units:         units,
		lock:          lock,
		loader:        NewLoader(cfg.SeedOrganizationID, logger),
		logger:        logger,
		resyncTimeout: cfg.ResyncTimeout,
		loadTimeout:   cfg.LoadTimeout,
	}
}

// SyncReferenceCodes reconciles the stored reference-code set against a
// parsed feed. The branch decision and any replacement happen inside one
// unit of work: a failed replace leaves the previous set fully intact.
func (e *Engine) SyncReferenceCodes(ctx context.Context, incoming []feed.ReferenceRecord) (*ResyncReport, error) {
	if err := e.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release(ctx)

	var report *ResyncReport
	err := e.units.RunUnit(ctx, e.resyncTimeout, func(ctx context.Context, s Store) error {
		r, err := e.resync(ctx, s, incoming)
		report = r
		return err
	})
	if err != nil {
		return nil, e.unitErr("reference resync", err)
	}

	e.logger.Info("reference resync finished",
		zap.String("branch", string(report.Branch)),
		zap.Int("rows_deleted", report.RowsDeleted),
		zap.Int("rows_inserted", report.RowsInserted))
	return report, nil
}

func (e *Engine) resync(ctx context.Context, s Store, incoming []feed.ReferenceRecord) (*ResyncReport, error) {
	if err := rejectDuplicateReferences(incoming); err != nil {
		return nil, err
	}

	count, err := s.CountReferenceCodes(ctx)
	if err != nil {
		return nil, err
	}

	var stored []geo.ReferenceCode
	if count > 0 {
		stored, err = s.ListReferenceCodes(ctx)
		if err != nil {
			return nil, err
		}
	}

	branch := DetectBranch(count, stored, incoming)
	report := &ResyncReport{Branch: branch}
	if branch == BranchNone {
		return report, nil
	}

	if branch == BranchFullReplace {
		if err := s.DeleteAllReferenceCodes(ctx); err != nil {
			return nil, err
		}
		report.RowsDeleted = int(count)
	}

	rows := make([]*geo.ReferenceCode, 0, len(incoming))
	for _, rec := range incoming {
		row, err := geo.NewReferenceCode(rec.Code, rec.FeeClass, rec.Active, rec.Address)
		if err != nil {
			return nil, fmt.Errorf("reference code %q: %w", rec.Code, err)
		}
		rows = append(rows, row)
	}
	if err := s.InsertReferenceCodes(ctx, rows); err != nil {
		return nil, err
	}
	report.RowsInserted = len(rows)
	return report, nil
}

// rejectDuplicateReferences guards the (code, address) uniqueness of the
// incoming set before the branch decision. The parser already refuses
// duplicate feed lines; this covers records handed to the engine directly.
func rejectDuplicateReferences(incoming []feed.ReferenceRecord) error {
	seen := make(map[refKey]struct{}, len(incoming))
	for _, rec := range incoming {
		key := normalizeKey(rec.Code, rec.Address)
		if _, dup := seen[key]; dup {
			return &DuplicateReferenceError{Code: rec.Code, Address: rec.Address}
		}
		seen[key] = struct{}{}
	}
	return nil
}

// SyncFromFeed fetches the reference feed from its source, parses it and
// reconciles the stored set against it
func (e *Engine) SyncFromFeed(ctx context.Context, src feed.Source) (*ResyncReport, error) {
	body, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference feed: %w", err)
	}
	defer body.Close()

	records, err := feed.ParseReferenceFeed(body)
	if err != nil {
		return nil, err
	}
	return e.SyncReferenceCodes(ctx, records)
}

// LoadDataset applies a seed bundle in one dependency-ordered unit of
// work. Replaying a bundle that already loaded inserts nothing.
func (e *Engine) LoadDataset(ctx context.Context, bundle *DatasetBundle) (*LoadReport, error) {
	if err := e.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release(ctx)

	var report *LoadReport
	err := e.units.RunUnit(ctx, e.loadTimeout, func(ctx context.Context, s Store) error {
		r, err := e.loader.Load(ctx, s, bundle)
		report = r
		return err
	})
	if err != nil {
		return nil, e.unitErr("dataset load", err)
	}

	e.logger.Info("dataset load finished",
		zap.Int("rows_inserted", report.TotalInserted()),
		zap.Int("envelopes_recomputed", report.Recomputed))
	return report, nil
}

// RecomputeEnvelopeTotal re-derives one envelope total on demand, for
// repair after out-of-band changes to line items
func (e *Engine) RecomputeEnvelopeTotal(ctx context.Context, kind EnvelopeKind, envelopeID uuid.UUID) (int64, error) {
	var total int64
	err := e.units.RunUnit(ctx, e.loadTimeout, func(ctx context.Context, s Store) error {
		t, err := RecomputeTotal(ctx, s, kind, envelopeID)
		total = t
		return err
	})
	if err != nil {
		return 0, e.unitErr("total recompute", err)
	}
	return total, nil
}

func (e *Engine) release(ctx context.Context) {
	if err := e.lock.Release(ctx); err != nil {
		e.logger.Warn("failed to release reconcile lock", zap.Error(err))
	}
}

func (e *Engine) unitErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrUnitTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
