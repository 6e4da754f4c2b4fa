package uow

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JulianVillasenor/restaurante/internal/repository"
	postgres "github.com/JulianVillasenor/restaurante/internal/repository/postgres"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// Coordinator runs fn as one atomic unit against a transaction-bound
// store view. Hooks registered through after run only once the unit has
// committed; on any error nothing is visible to other observers.
type Coordinator interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error) error
}

// UoW is the Postgres-backed Coordinator. Transactions run serializable
// and are bounded by Timeout; a transaction that overruns it is rolled
// back and surfaces as repository.ErrUnavailable.
type UoW struct {
	store   *postgres.Store
	timeout time.Duration
}

func NewUoW(store *postgres.Store, timeout time.Duration) *UoW {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UoW{store: store, timeout: timeout}
}

// Do runs fn inside the transaction. After a successful commit, it
// executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn inside the transaction with the given options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	txCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	err := u.store.RunTx(txCtx, opts, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return repository.ErrUnavailable
		}
		return err
	}

	// Hooks run on the caller's context: the transaction deadline no
	// longer applies once the work is durable.
	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
