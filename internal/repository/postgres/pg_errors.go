package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JulianVillasenor/restaurante/internal/repository"
)

// IsRetryable reports whether the transaction failed on a serialization
// or deadlock condition a caller may retry. The core never retries on
// its own.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}

	return false
}

// translateDBErr maps driver errors onto repository sentinels so callers
// never branch on pgx types.
func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return repository.ErrUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return repository.ErrUnavailable
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		// unique_violation
		case "23505":
			return repository.ErrConflict
		// serialization_failure, deadlock_detected
		case "40001", "40P01":
			return repository.ErrConflict
		// foreign_key_violation: referenced row missing
		case "23503":
			return repository.ErrNotFound
		}
		// connection exceptions (class 08)
		if len(pge.Code) >= 2 && pge.Code[:2] == "08" {
			return repository.ErrUnavailable
		}
	}

	return err
}
