package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type activeTxKey struct{}

// TxManager implements ports.TxManager. The open transaction travels in ctx,
// and every repository call made with that ctx runs on it.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return inTx(ctx, t.db, func(ctx context.Context, _ *gorm.DB) error {
		return fn(ctx)
	})
}

// inTx runs fn on the transaction already carried by ctx, or opens one on
// base. A nested call never commits on its own.
func inTx(ctx context.Context, base *gorm.DB, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if tx, ok := activeTx(ctx); ok {
		return fn(ctx, tx)
	}
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, activeTxKey{}, tx), tx)
	})
}

func activeTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(activeTxKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// conn is the handle a single statement should use under ctx.
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := activeTx(ctx); ok {
		return tx
	}
	return base.WithContext(ctx)
}
