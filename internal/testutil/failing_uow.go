package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/tetsunavi/tetsunavi/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose transactions fail the Nth write
// (counting from 1) with Err. Reads pass through. Tests use it to check
// that a multi-statement bookmark update leaves no partial state.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	return db.RunInTx(ctx, u.DB, func(tx db.DBTX) db.DBTX {
		return &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	}, fn)
}

type failOnNthExec struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
