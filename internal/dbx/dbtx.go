// Package dbx holds the database/sql helpers shared by the Postgres
// repositories: the handle interface they are written against, a
// transaction runner and driver error classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the part of database/sql a repository query needs. *sql.DB,
// *sql.Conn and *sql.Tx all satisfy it, so the same repository code runs
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner opens transactions. *sql.DB and *sql.Conn satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// InTx runs fn against a transaction opened on db.
//
// The transaction commits when fn returns nil. Any error from fn, or a panic,
// rolls it back; panics are re-raised after the rollback. A failed rollback
// is joined onto fn's error.
//
//	err := dbx.InTx(ctx, db, nil, func(tx dbx.DBTX) error {
//		_, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token = $1", old)
//		return err
//	})
func InTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
