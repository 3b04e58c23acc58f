package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/domain"
)

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call within a transaction, so multi-write use cases can be checked for
// rollback.
//
// ExecContext calls are counted starting at 1. Reads pass through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// FailingStore wraps a timeline store and fails every save while Err is
// set. Loads pass through.
type FailingStore struct {
	Inner interface {
		LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error)
		SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) error
	}
	Err   error
	Calls atomic.Int32
}

func (s *FailingStore) LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error) {
	return s.Inner.LoadTimeline(ctx, practicumID)
}

func (s *FailingStore) SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) error {
	s.Calls.Add(1)
	if s.Err != nil {
		return s.Err
	}
	return s.Inner.SaveTimeline(ctx, practicumID, cfg)
}
