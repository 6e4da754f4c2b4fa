package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	"github.com/JulianVillasenor/restaurante/internal/uow"
)

func newTable(id int64) domain.Table {
	return domain.Table{
		ID:    id,
		Seats: 4,
		State: domain.TableFree,
		Geometry: domain.Geometry{
			PosX: 10, PosY: 10, Width: 80, Height: 80, Shape: "rectangulo",
		},
	}
}

func newItem(tableID int64, price string, qty int) domain.LineItem {
	li := domain.LineItem{
		TableID:    tableID,
		ProductRef: "pasta",
		UnitPrice:  decimal.RequireFromString(price),
		Quantity:   qty,
	}
	li.RecomputeSubtotal()
	return li
}

func TestTablesCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Tables().Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Tables().Create(ctx, newTable(2)))
	require.NoError(t, store.Tables().Create(ctx, newTable(1)))

	err = store.Tables().Create(ctx, newTable(1))
	assert.ErrorIs(t, err, repository.ErrConflict)

	// List preserves insertion order
	tables, err := store.Tables().List(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, int64(2), tables[0].ID)
	assert.Equal(t, int64(1), tables[1].ID)

	require.NoError(t, store.Tables().SetState(ctx, 1, domain.TableOccupied))
	got, err := store.Tables().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, got.State)

	err = store.Tables().SetState(ctx, 404, domain.TableFree)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Tables().SetState(ctx, 1, domain.TableState(9))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	g := domain.Geometry{PosX: 5, PosY: 6, Width: 50, Height: 50, Shape: "circulo"}
	require.NoError(t, store.Tables().UpdateGeometry(ctx, 1, g))
	got, err = store.Tables().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, g, got.Geometry)
}

func TestBillsOpenItems(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Tables().Create(ctx, newTable(1)))

	_, err := store.Bills().AddItem(ctx, newItem(404, "1.00", 1))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	first, err := store.Bills().AddItem(ctx, newItem(1, "12.50", 2))
	require.NoError(t, err)
	second, err := store.Bills().AddItem(ctx, newItem(1, "3.00", 3))
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)

	open, err := store.Bills().OpenItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, first.ID, open[0].ID)
	assert.Equal(t, second.ID, open[1].ID)

	open, err = store.Bills().OpenItems(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestBillsUpdateItem(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Tables().Create(ctx, newTable(1)))

	item, err := store.Bills().AddItem(ctx, newItem(1, "12.50", 2))
	require.NoError(t, err)

	err = store.Bills().UpdateItem(ctx, item.ID, 3, decimal.RequireFromString("37.50"), nil)
	require.NoError(t, err)

	got, err := store.Bills().GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("37.50")))

	err = store.Bills().UpdateItem(ctx, 404, 1, decimal.Zero, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Invoiced items refuse edits
	folio, err := store.Bills().CreateFolio(ctx, "F-1", uuid.New())
	require.NoError(t, err)
	_, err = store.Bills().StampFolio(ctx, 1, folio.ID)
	require.NoError(t, err)

	err = store.Bills().UpdateItem(ctx, item.ID, 5, decimal.Zero, nil)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestBillsCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Tables().Create(ctx, newTable(1)))

	_, err := store.Bills().AddItem(ctx, newItem(1, "12.50", 2))
	require.NoError(t, err)
	_, err = store.Bills().AddItem(ctx, newItem(1, "3.00", 3))
	require.NoError(t, err)

	folio, err := store.Bills().CreateFolio(ctx, "F-1001", uuid.New())
	require.NoError(t, err)

	_, err = store.Bills().CreateFolio(ctx, "F-1001", uuid.New())
	assert.ErrorIs(t, err, repository.ErrConflict)

	stamped, err := store.Bills().StampFolio(ctx, 1, folio.ID)
	require.NoError(t, err)
	require.Len(t, stamped, 2)
	for _, li := range stamped {
		require.NotNil(t, li.FolioID)
		assert.Equal(t, folio.ID, *li.FolioID)
	}

	// Nothing left to stamp
	_, err = store.Bills().StampFolio(ctx, 1, folio.ID)
	assert.ErrorIs(t, err, repository.ErrNoOpenItems)

	open, err := store.Bills().OpenItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, open)

	got, err := store.Bills().GetFolio(ctx, "F-1001")
	require.NoError(t, err)
	assert.Equal(t, folio.ID, got.ID)

	_, err = store.Bills().GetFolio(ctx, "F-9999")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	items, err := store.Bills().ItemsByFolio(ctx, folio.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.True(t, domain.TotalOf(items).Equal(decimal.RequireFromString("34.00")))
}

func TestCoordinatorCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	co := NewCoordinator(store)

	var hookRan bool

	err := co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if err := tx.Tables().Create(ctx, newTable(1)); err != nil {
			return err
		}
		after(func(ctx context.Context) { hookRan = true })
		return nil
	})
	require.NoError(t, err)
	assert.True(t, hookRan)

	_, err = store.Tables().Get(ctx, 1)
	assert.NoError(t, err)
}

func TestCoordinatorRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	co := NewCoordinator(store)
	require.NoError(t, store.Tables().Create(ctx, newTable(1)))

	boom := errors.New("boom")
	var hookRan bool

	err := co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if err := tx.Tables().SetState(ctx, 1, domain.TableOccupied); err != nil {
			return err
		}
		if _, err := tx.Bills().AddItem(ctx, newItem(1, "9.99", 1)); err != nil {
			return err
		}
		after(func(ctx context.Context) { hookRan = true })
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, hookRan)

	// Every write inside the failed unit is undone
	got, err := store.Tables().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, got.State)

	open, err := store.Bills().OpenItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, open)
}
