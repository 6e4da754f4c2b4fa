package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
)

// TableRepo maps the mesas table. Column names keep the original
// floor-plan schema (sillas, estado, forma).
type TableRepo struct {
	db DB
}

const tableColumns = `id, sillas, estado, pos_x, pos_y, ancho, alto, forma`

// List returns every table in storage order.
//
// Returns:
//   - []domain.Table: all tables, empty slice when none exist.
//   - error: only on store failure; an empty floor plan is not an error.
func (r *TableRepo) List(ctx context.Context) ([]domain.Table, error) {
	const op = "postgres.TableRepo.List"

	rows, err := r.db.Query(ctx,
		`SELECT `+tableColumns+`
		 FROM mesas
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	defer rows.Close()

	out := []domain.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return out, nil
}

// Get retrieves a table by id.
//
// Returns:
//   - *domain.Table: the table when found.
//   - error: repository.ErrNotFound if no row matches.
func (r *TableRepo) Get(ctx context.Context, id int64) (*domain.Table, error) {
	const op = "postgres.TableRepo.Get"

	t, err := r.get(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// GetForUpdate retrieves a table and locks its row for the rest of the
// enclosing transaction. Concurrent writers on the same table serialize
// on this lock, which is what keeps two checkouts from both succeeding.
func (r *TableRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Table, error) {
	const op = "postgres.TableRepo.GetForUpdate"

	t, err := r.get(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (r *TableRepo) get(ctx context.Context, id int64, forUpdate bool) (*domain.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM mesas WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	t, err := scanTable(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}

	return t, nil
}

// SetState persists a new occupancy state.
//
// Returns:
//   - error: domain.ErrInvalidState for a value outside the enum.
//   - error: repository.ErrNotFound if the table does not exist.
func (r *TableRepo) SetState(ctx context.Context, id int64, state domain.TableState) error {
	const op = "postgres.TableRepo.SetState"

	if !state.Valid() {
		return fmt.Errorf("%s: %w: %d", op, domain.ErrInvalidState, state)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE mesas SET estado = $2 WHERE id = $1`,
		id, int16(state),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

// Create provisions a table row. The id is assigned by the seating plan.
//
// Returns:
//   - error: repository.ErrConflict if the id is already taken.
func (r *TableRepo) Create(ctx context.Context, t domain.Table) error {
	const op = "postgres.TableRepo.Create"

	if !t.State.Valid() {
		return fmt.Errorf("%s: %w: %d", op, domain.ErrInvalidState, t.State)
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO mesas (`+tableColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Seats, int16(t.State),
		t.Geometry.PosX, t.Geometry.PosY, t.Geometry.Width, t.Geometry.Height, t.Geometry.Shape,
	); err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return nil
}

// UpdateGeometry rewrites the floor-plan placement of a table without
// touching its state.
func (r *TableRepo) UpdateGeometry(ctx context.Context, id int64, g domain.Geometry) error {
	const op = "postgres.TableRepo.UpdateGeometry"

	tag, err := r.db.Exec(ctx,
		`UPDATE mesas
		 SET pos_x = $2, pos_y = $3, ancho = $4, alto = $5, forma = $6
		 WHERE id = $1`,
		id, g.PosX, g.PosY, g.Width, g.Height, g.Shape,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func scanTable(row pgx.Row) (*domain.Table, error) {
	var t domain.Table
	var estado int16

	if err := row.Scan(
		&t.ID,
		&t.Seats,
		&estado,
		&t.Geometry.PosX,
		&t.Geometry.PosY,
		&t.Geometry.Width,
		&t.Geometry.Height,
		&t.Geometry.Shape,
	); err != nil {
		return nil, translateDBErr(err)
	}

	state, err := domain.TableStateFromInt(estado)
	if err != nil {
		return nil, err
	}
	t.State = state

	return &t, nil
}
