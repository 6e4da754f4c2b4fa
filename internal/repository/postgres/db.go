package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JulianVillasenor/restaurante/internal/repository"
)

// DB is the subset of pgx both the pool and a transaction satisfy.
// Repositories only ever talk through it, so the same code runs inside
// and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store is the Postgres-backed ledger store. The zero-value repositories
// it hands out run on the pool; RunTx hands callbacks a view whose
// repositories are bound to the open transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Tables() repository.Tables { return &TableRepo{db: s.pool} }
func (s *Store) Bills() repository.Bills   { return &BillRepo{db: s.pool} }

// txStore is a Store view bound to a single transaction.
type txStore struct {
	db DB
}

func (s *txStore) Tables() repository.Tables { return &TableRepo{db: s.db} }
func (s *txStore) Bills() repository.Bills   { return &BillRepo{db: s.db} }

// RunTx runs fn inside one transaction, serializable unless opts says
// otherwise. Any error from fn or commit leaves the store untouched.
func (s *Store) RunTx(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx repository.Store) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}
	if opts != nil {
		txOpts = *opts
	}

	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return translateDBErr(err)
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, &txStore{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", translateDBErr(err))
	}

	return nil
}

// Operation is one statement of an atomic batch.
type Operation struct {
	SQL  string
	Args []any
}

// RunOps executes an ordered list of statements as one all-or-nothing
// unit. The first failing statement aborts the batch and rolls back
// everything before it.
func (s *Store) RunOps(ctx context.Context, ops []Operation) error {
	const op = "postgres.Store.RunOps"

	return s.RunTx(ctx, nil, func(ctx context.Context, tx repository.Store) error {
		db := tx.(*txStore).db
		for i, o := range ops {
			if _, err := db.Exec(ctx, o.SQL, o.Args...); err != nil {
				return fmt.Errorf("%s: op %d: %w", op, i, translateDBErr(err))
			}
		}
		return nil
	})
}
