package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/infrastructure/cache"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormUnitRunner_RunUnit(t *testing.T) {
	t.Run("commits when the unit succeeds", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		runner := NewGormUnitRunner(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM reference_codes`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := runner.RunUnit(context.Background(), time.Minute, func(ctx context.Context, s reconcile.Store) error {
			return s.DeleteAllReferenceCodes(ctx)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a statement failing mid-unit rolls the whole unit back", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		runner := NewGormUnitRunner(gormDB)

		stmtErr := errors.New("deadlock detected")
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM reference_codes`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`UPDATE "request_envelopes" SET`).
			WillReturnError(stmtErr)
		mock.ExpectRollback()

		envelopeID := uuid.New()
		err := runner.RunUnit(context.Background(), time.Minute, func(ctx context.Context, s reconcile.Store) error {
			if err := s.DeleteAllReferenceCodes(ctx); err != nil {
				return err
			}
			return s.UpdateEnvelopeTotal(ctx, reconcile.EnvelopeRequest, envelopeID, 1000)
		})
		assert.ErrorIs(t, err, stmtErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failing unit body rolls back its writes", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		runner := NewGormUnitRunner(gormDB)

		bodyErr := errors.New("referential gap")
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM reference_codes`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectRollback()

		err := runner.RunUnit(context.Background(), time.Minute, func(ctx context.Context, s reconcile.Store) error {
			if err := s.DeleteAllReferenceCodes(ctx); err != nil {
				return err
			}
			return bodyErr
		})
		assert.ErrorIs(t, err, bodyErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an exhausted time bound surfaces as a context deadline", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		runner := NewGormUnitRunner(gormDB)

		err := runner.RunUnit(context.Background(), -time.Second, func(ctx context.Context, s reconcile.Store) error {
			t.Fatal("unit body must not run past the deadline")
			return nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngineWithGormUnitRunner_Timeout(t *testing.T) {
	t.Run("deadline inside the unit maps to the timeout category", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		engine := reconcile.NewEngine(NewGormUnitRunner(gormDB),
			cache.NewInMemoryReconcileLock(time.Minute), reconcile.EngineConfig{
				ResyncTimeout: -time.Second,
				LoadTimeout:   -time.Second,
			}, zap.NewNop())

		_, err := engine.SyncReferenceCodes(context.Background(), []feed.ReferenceRecord{
			{Code: "63000", FeeClass: geo.FeeClassJeju, Active: true, Address: "Jeju-si"},
		})
		assert.ErrorIs(t, err, reconcile.ErrUnitTimeout)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
