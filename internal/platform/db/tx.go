package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by pools, connections and
// transactions. Repositories accept it through ConnFromContext so that a
// service can run several repository calls inside one transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type contextKey string

const connKey contextKey = "db_conn"

// WithConn returns a context carrying the given querier. Repositories prefer
// it over their pool when present.
func WithConn(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, connKey, q)
}

// ConnFromContext retrieves the querier stored by WithConn, or nil.
func ConnFromContext(ctx context.Context) Querier {
	q, _ := ctx.Value(connKey).(Querier)
	return q
}

// InTx runs fn inside a single transaction. The transaction is placed on the
// context so repository calls made within fn share it. Rollback on error,
// commit otherwise.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
