package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// withTx returns a context carrying an open transaction handle
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFrom returns the transaction carried by ctx, or fallback when the call
// runs outside any transaction. Repositories use this so the same instance
// works standalone and inside a TxManager.Do block.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// GormTxManager runs functions inside one database transaction. The ctx it
// hands to fn carries the transaction handle; repositories built on dbFrom
// pick it up automatically.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager over the given connection
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do implements the application layer's TxManager port
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
