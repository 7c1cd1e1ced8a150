package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const dialect = "postgres"

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
	// QueryTimeout bounds every datastore round trip started through WithDeadline.
	QueryTimeout time.Duration
}

func NewRepository(db *sql.DB, queryTimeout time.Duration) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(dialect, db),
		QueryTimeout:  queryTimeout,
	}
}

// WithDeadline applies the configured query timeout to ctx.
func (r *Repository) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.QueryTimeout)
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
	return WithTransactionOptions(ctx, db, nil, fn)
}

// WithTransactionOptions is WithTransaction with an explicit isolation level
// or read-only mode.
func WithTransactionOptions(ctx context.Context, db *goqu.Database, opts *sql.TxOptions, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
