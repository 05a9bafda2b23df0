package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer is the minimal storage-access interface repositories depend on.
// It is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock, so the same
// repository can run against the pool, inside a tenant-bound transaction, or
// under test.
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxBeginner is a Queryer that can also open transactions. The tenant guard
// and the refresh-token rotation both need this.
type TxBeginner interface {
	Queryer
	Begin(ctx context.Context) (pgx.Tx, error)
}
