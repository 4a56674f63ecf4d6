package repository

import (
	"context"
	"errors"
	"fmt"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type txKey struct{}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// GetExecutor picks where a repository call runs: the transaction opened by TxManager when ctx carries one, db otherwise.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

// TxManager groups repository calls, such as an assignment and its progress rows, into one commit.
type TxManager struct {
	db *sqlx.DB
}

var _ domain.TransactionManager = (*TxManager)(nil)

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction commits when fn returns nil and rolls back on an error or a panic.
// A ctx that already carries a transaction joins it, so services can nest calls freely.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committing := false
	defer func() {
		p := recover()
		if p == nil && (err == nil || committing) {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Get().Error("Transaction rollback failed", zap.Error(rbErr), zap.Any("panic", p))
			if p == nil {
				err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
			}
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	committing = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
