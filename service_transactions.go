package teamkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// withTx runs fn inside a database transaction and hands it the
// transactional handle. Every mutation path (assign, update, revoke,
// reconcile) goes through here so the assignment write and its audit
// entry commit or roll back together.
func (s *Service) withTx(ctx context.Context, fn func(db dbkit.IDB) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already in a transaction, nest via savepoint.
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(tx)
		})
	case *dbkit.DBKit:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(tx)
		})
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	s.txMonitor.recordTransaction(time.Since(start), err == nil)

	return err
}

// Transaction executes a function within a database transaction with
// automatic commit/rollback. If the function returns an error, the
// transaction is rolled back; otherwise it is committed.
//
// Each Service operation already runs its own transaction internally, so
// operations called from fn keep their individual atomicity. Use this
// wrapper to group application-level database work that shares the
// service's connection.
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.withTx(ctx, func(dbkit.IDB) error {
		return fn(ctx)
	})
}

// TransactionWithOptions executes a function within a database
// transaction with custom options. Supports read-only transactions,
// isolation levels, and other transaction parameters.
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context) error) error {
	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Nested transactions use savepoints; options apply to the outer
		// transaction only.
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	case *dbkit.DBKit:
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	default:
		return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}
}

// ReadOnlyTransaction executes a function within a read-only database
// transaction. Useful for multi-query reads that need a consistent
// snapshot, e.g. analytics plus the assignment list behind them.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
