package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/JulianVillasenor/restaurante/internal/repository"
)

func TestTranslateDBErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: pgx.ErrNoRows, want: repository.ErrNotFound},
		{name: "deadline", in: context.DeadlineExceeded, want: repository.ErrUnavailable},
		{name: "canceled", in: context.Canceled, want: repository.ErrUnavailable},
		{name: "unique violation", in: &pgconn.PgError{Code: "23505"}, want: repository.ErrConflict},
		{name: "serialization failure", in: &pgconn.PgError{Code: "40001"}, want: repository.ErrConflict},
		{name: "deadlock", in: &pgconn.PgError{Code: "40P01"}, want: repository.ErrConflict},
		{name: "fk violation", in: &pgconn.PgError{Code: "23503"}, want: repository.ErrNotFound},
		{name: "connection failure", in: &pgconn.PgError{Code: "08006"}, want: repository.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDBErr(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslateDBErrPassthrough(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, translateDBErr(boom))

	// Unmapped SQLSTATE stays as-is
	pge := &pgconn.PgError{Code: "22012"}
	assert.Equal(t, error(pge), translateDBErr(pge))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsRetryable(nil))
}
