package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/repository"
)

// TxRunner implements repository.TxManager on a connection pool.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) repository.TxManager {
	return &TxRunner{db: db}
}

// WithTx executes fn within a transaction. A returned error or a panic rolls
// everything back; otherwise the transaction commits.
func (r *TxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ext resolves the executor for a tx-aware read: the caller's transaction
// when one was supplied, the plain pool otherwise.
func ext(q sqlx.ExtContext, db *sqlx.DB) sqlx.ExtContext {
	if q == nil {
		return db
	}
	return q
}
