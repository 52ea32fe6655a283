package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-progress/internal/platform/logger"
)

// WithTx runs fn inside a transaction and commits when fn returns nil. When db
// is already a transaction (it cannot begin another), fn runs on it directly
// and the caller keeps ownership of commit and rollback.
//
// A failed fn, a failed commit or a panic rolls the transaction back. fn's
// error is returned unchanged so callers can still match store sentinels.
func WithTx(ctx context.Context, db DBTX, fn func(tx DBTX) error) (err error) {
	beginner, ok := db.(TxBeginner)
	if !ok {
		return fn(db)
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.FromContext(ctx).Warn("transaction rollback failed",
				slog.String("error", rbErr.Error()))
			if err != nil {
				err = errors.Join(err, fmt.Errorf("%w: rollback: %w", ErrTransactionFailed, rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	committed = true
	return nil
}
