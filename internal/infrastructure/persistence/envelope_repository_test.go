package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM handle over a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func TestGormEnvelopeRepository_FindByID(t *testing.T) {
	t.Run("finds an envelope with its line items", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEnvelopeRepository(gormDB)

		envelopeID := uuid.New()
		orgID := uuid.New()
		requesterID := uuid.New()
		itemID := uuid.New()
		now := time.Now()

		envelopeRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "organization_id",
			"requester_id", "status", "total_amount", "total_currency", "remark", "resolved_at",
		}).AddRow(envelopeID, now, now, orgID, requesterID, "PENDING", int64(2000), "KRW", "", nil)

		mock.ExpectQuery(`SELECT \* FROM "request_envelopes" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(envelopeID, 1).
			WillReturnRows(envelopeRows)

		itemRows := sqlmock.NewRows([]string{
			"id", "envelope_id", "catalog_item_id", "item_name",
			"price_amount", "price_currency", "quantity", "created_at", "updated_at",
		}).AddRow(itemID, envelopeID, uuid.New(), "A4 80g", int64(1000), "KRW", int64(2), now, now)

		mock.ExpectQuery(`SELECT \* FROM "line_items" WHERE envelope_id IN \(\$1\) ORDER BY created_at ASC`).
			WithArgs(envelopeID).
			WillReturnRows(itemRows)

		envelope, err := repo.FindByID(context.Background(), envelopeID)
		require.NoError(t, err)

		assert.Equal(t, envelopeID, envelope.ID)
		assert.Equal(t, ordering.RequestStatusPending, envelope.Status)
		assert.Equal(t, int64(2000), envelope.TotalAmount.Amount())
		require.Len(t, envelope.Items, 1)
		assert.Equal(t, int64(1000), envelope.Items[0].Price.Amount())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing envelope to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEnvelopeRepository(gormDB)

		envelopeID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "request_envelopes" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(envelopeID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		envelope, err := repo.FindByID(context.Background(), envelopeID)
		assert.Nil(t, envelope)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCatalogItemRepository_FindByID(t *testing.T) {
	t.Run("reassembles the price from its columns", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCatalogItemRepository(gormDB)

		itemID := uuid.New()
		orgID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "organization_id", "category_id",
			"name", "code", "price_amount", "price_currency", "description", "active",
		}).AddRow(itemID, now, now, orgID, uuid.New(), "A4 80g", "PPR-A4-80",
			int64(1000), "KRW", "", true)

		mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), item.Price.Amount())
		assert.True(t, item.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReconcileStore(t *testing.T) {
	t.Run("counts reference codes", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		store := NewGormReconcileStore(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "reference_codes"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

		count, err := store.CountReferenceCodes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters existing ids against the destination table", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		store := NewGormReconcileStore(gormDB)

		present := uuid.New()
		missing := uuid.New()

		mock.ExpectQuery(`SELECT "id" FROM "organizations" WHERE id IN \(\$1,\$2\)`).
			WithArgs(present, missing).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(present))

		existing, err := store.FilterExistingIDs(context.Background(),
			"organization", []uuid.UUID{present, missing})
		require.NoError(t, err)
		assert.Contains(t, existing, present)
		assert.NotContains(t, existing, missing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sums line items in the database", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		store := NewGormReconcileStore(gormDB)

		envelopeID := uuid.New()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(price_amount \* quantity\), 0\) FROM "line_items" WHERE envelope_id = \$1`).
			WithArgs(envelopeID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(3500)))

		total, err := store.SumEnvelopeLineItems(context.Background(), envelopeID)
		require.NoError(t, err)
		assert.Equal(t, int64(3500), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
