package database

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
)

// errAbort makes gorm roll back a transaction whose result asked to abort.
var errAbort = stderrors.New("result requested rollback")

// TxFunc is a unit of work that reports its outcome as a result.
type TxFunc[T any] func(tx *gorm.DB) result.Result[T]

// RunInTx runs fn in a transaction. The transaction commits when fn's result
// is a success and rolls back when ShouldAbort reports true; the result is
// returned unchanged in both cases. Begin or commit failures become Generic
// failures. A panic in fn rolls back and propagates.
func RunInTx[T any](ctx context.Context, db *DB, fn TxFunc[T]) result.Result[T] {
	var out result.Result[T]
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		out = fn(tx)
		if out.ShouldAbort() {
			return errAbort
		}
		return nil
	})

	switch {
	case err == nil:
		return out
	case stderrors.Is(err, errAbort):
		db.log.WithContext(ctx).Debug("Transaction rolled back", logger.OutcomeFields("tx", out))
		return out
	default:
		db.log.WithContext(ctx).Error("Transaction failed", logger.ErrorFields("tx", err))
		return result.Failure[T](errors.Generic(fmt.Sprintf("transaction failed: %v", err)))
	}
}
