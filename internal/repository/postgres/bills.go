package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
)

// BillRepo maps the cuenta and facturas tables. Column names keep the
// original billing schema (valor_articulo, cantidad, observaciones).
type BillRepo struct {
	db DB
}

const itemColumns = `id, id_mesa, producto, valor_articulo, cantidad, subtotal, id_folio, observaciones`

// AddItem inserts a line item on a table's open tab.
//
// Returns:
//   - *domain.LineItem: the persisted item including its generated id.
//   - error: repository.ErrNotFound if the table does not exist.
func (r *BillRepo) AddItem(ctx context.Context, item domain.LineItem) (*domain.LineItem, error) {
	const op = "postgres.BillRepo.AddItem"

	err := r.db.QueryRow(ctx,
		`INSERT INTO cuenta (id_mesa, producto, valor_articulo, cantidad, subtotal, observaciones)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		item.TableID, item.ProductRef, item.UnitPrice, item.Quantity, item.Subtotal, item.Notes,
	).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &item, nil
}

// OpenItems returns the table's open tab: every line item without a
// folio, id ascending.
func (r *BillRepo) OpenItems(ctx context.Context, tableID int64) ([]domain.LineItem, error) {
	const op = "postgres.BillRepo.OpenItems"

	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM cuenta
		 WHERE id_mesa = $1 AND id_folio IS NULL
		 ORDER BY id`,
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// GetItem retrieves one line item by id.
//
// Returns:
//   - error: repository.ErrNotFound if no row matches.
func (r *BillRepo) GetItem(ctx context.Context, id int64) (*domain.LineItem, error) {
	const op = "postgres.BillRepo.GetItem"

	li, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM cuenta WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return li, nil
}

// UpdateItem rewrites quantity, notes and the derived subtotal of an
// open item. The id_folio IS NULL guard makes a stamped item immutable
// at the store level.
//
// Returns:
//   - error: repository.ErrConflict if the item already carries a folio.
//   - error: repository.ErrNotFound if the item does not exist.
func (r *BillRepo) UpdateItem(
	ctx context.Context,
	id int64,
	quantity int,
	subtotal decimal.Decimal,
	notes *string,
) error {
	const op = "postgres.BillRepo.UpdateItem"

	tag, err := r.db.Exec(ctx,
		`UPDATE cuenta
		 SET cantidad = $2, subtotal = $3, observaciones = $4
		 WHERE id = $1 AND id_folio IS NULL`,
		id, quantity, subtotal, notes,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a closed item from a missing one.
		var n int
		if err := r.db.QueryRow(ctx,
			`SELECT 1 FROM cuenta WHERE id = $1`, id,
		).Scan(&n); err != nil {
			return fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	return nil
}

// CreateFolio writes the invoice record once.
//
// Returns:
//   - *domain.Folio: the folio including its generated id.
//   - error: repository.ErrConflict on a duplicate folio reference.
func (r *BillRepo) CreateFolio(ctx context.Context, ref string, saleID uuid.UUID) (*domain.Folio, error) {
	const op = "postgres.BillRepo.CreateFolio"

	f := domain.Folio{Ref: ref, SaleID: saleID}
	err := r.db.QueryRow(ctx,
		`INSERT INTO facturas (folio, id_venta)
		 VALUES ($1, $2)
		 RETURNING id, creado_en`,
		ref, saleID,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &f, nil
}

// StampFolio tags every open item of the table with the folio and
// returns the affected items, id ascending.
//
// Returns:
//   - error: repository.ErrNoOpenItems when the tab is empty.
func (r *BillRepo) StampFolio(ctx context.Context, tableID, folioID int64) ([]domain.LineItem, error) {
	const op = "postgres.BillRepo.StampFolio"

	rows, err := r.db.Query(ctx,
		`UPDATE cuenta
		 SET id_folio = $2
		 WHERE id_mesa = $1 AND id_folio IS NULL
		 RETURNING `+itemColumns,
		tableID, folioID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNoOpenItems)
	}

	// UPDATE ... RETURNING has no defined order.
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

// GetFolio retrieves a folio by its reference.
//
// Returns:
//   - error: repository.ErrNotFound if the reference is unknown.
func (r *BillRepo) GetFolio(ctx context.Context, ref string) (*domain.Folio, error) {
	const op = "postgres.BillRepo.GetFolio"

	var f domain.Folio
	err := r.db.QueryRow(ctx,
		`SELECT id, folio, id_venta, creado_en
		 FROM facturas
		 WHERE folio = $1`,
		ref,
	).Scan(&f.ID, &f.Ref, &f.SaleID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &f, nil
}

// ItemsByFolio reconstructs the invoiced bill, id ascending.
func (r *BillRepo) ItemsByFolio(ctx context.Context, folioID int64) ([]domain.LineItem, error) {
	const op = "postgres.BillRepo.ItemsByFolio"

	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM cuenta
		 WHERE id_folio = $1
		 ORDER BY id`,
		folioID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func collectItems(rows pgx.Rows) ([]domain.LineItem, error) {
	var out []domain.LineItem
	for rows.Next() {
		li, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *li)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBErr(err)
	}

	return out, nil
}

func scanItem(row pgx.Row) (*domain.LineItem, error) {
	var li domain.LineItem

	if err := row.Scan(
		&li.ID,
		&li.TableID,
		&li.ProductRef,
		&li.UnitPrice,
		&li.Quantity,
		&li.Subtotal,
		&li.FolioID,
		&li.Notes,
	); err != nil {
		return nil, translateDBErr(err)
	}

	return &li, nil
}
