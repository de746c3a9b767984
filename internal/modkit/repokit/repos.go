// Package repokit is what repositories import instead of the store package
package repokit

import (
	"context"

	"taxintake/internal/platform/store"
)

type (
	// Queryer is the SQL surface a bound repo runs against
	Queryer = store.RowQuerier

	// TxRunner runs a function inside a transaction
	TxRunner = store.TxRunner

	// Row is a single row result
	Row = store.Row

	// Rows is a result set
	Rows = store.Rows
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// ExecOne runs a write that must touch exactly one row
func ExecOne(ctx context.Context, q Queryer, sql string, args ...any) error {
	return store.ExecOne(ctx, q, sql, args...)
}
