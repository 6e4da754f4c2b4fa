package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository/memory"
)

func newFixture(t *testing.T, tableIDs ...int64) (*Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	for _, id := range tableIDs {
		require.NoError(t, store.Tables().Create(context.Background(), domain.Table{
			ID:    id,
			Seats: 4,
			State: domain.TableFree,
			Geometry: domain.Geometry{
				PosX: 0, PosY: 0, Width: 80, Height: 80, Shape: "rectangulo",
			},
		}))
	}

	svc := New(store, memory.NewCoordinator(store), nil, nil, nil)
	return svc, store
}

func tableState(t *testing.T, store *memory.Store, id int64) domain.TableState {
	t.Helper()
	tbl, err := store.Tables().Get(context.Background(), id)
	require.NoError(t, err)
	return tbl.State
}

func TestSeat(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1)

	require.NoError(t, svc.Seat(ctx, 1))
	assert.Equal(t, domain.TableOccupied, tableState(t, store, 1))

	// Seating an occupied table is a conflict
	err := svc.Seat(ctx, 1)
	assert.ErrorIs(t, err, ErrAlreadyOccupied)

	err = svc.Seat(ctx, 404)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestSeatFromReserved(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1)

	require.NoError(t, svc.Reserve(ctx, 1))
	require.NoError(t, svc.Seat(ctx, 1))
	assert.Equal(t, domain.TableOccupied, tableState(t, store, 1))
}

func TestReserve(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1, 2)

	require.NoError(t, svc.Reserve(ctx, 1))
	assert.Equal(t, domain.TableReserved, tableState(t, store, 1))

	err := svc.Reserve(ctx, 1)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	require.NoError(t, svc.Seat(ctx, 2))
	err = svc.Reserve(ctx, 2)
	assert.ErrorIs(t, err, ErrAlreadyOccupied)
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1, 2, 3)

	// Releasing a free table is a no-op
	require.NoError(t, svc.Release(ctx, 1))
	assert.Equal(t, domain.TableFree, tableState(t, store, 1))

	// Cancelled reservation
	require.NoError(t, svc.Reserve(ctx, 2))
	require.NoError(t, svc.Release(ctx, 2))
	assert.Equal(t, domain.TableFree, tableState(t, store, 2))

	// Occupied with open items must check out instead
	require.NoError(t, svc.Seat(ctx, 3))
	_, err := svc.AddOrderItem(ctx, 3, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)

	err = svc.Release(ctx, 3)
	assert.ErrorIs(t, err, ErrOpenItems)
	assert.Equal(t, domain.TableOccupied, tableState(t, store, 3))
}

func TestReleaseOccupiedWithoutItems(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1)

	require.NoError(t, svc.Seat(ctx, 1))
	require.NoError(t, svc.Release(ctx, 1))
	assert.Equal(t, domain.TableFree, tableState(t, store, 1))
}

func TestAddOrderItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1)
	require.NoError(t, svc.Seat(ctx, 1))

	item, err := svc.AddOrderItem(ctx, 1, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("25.00")))
	assert.Nil(t, item.FolioID)
}

func TestAddOrderItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1, 2)
	require.NoError(t, svc.Seat(ctx, 1))

	price := decimal.RequireFromString("12.50")

	_, err := svc.AddOrderItem(ctx, 1, "pasta", price, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddOrderItem(ctx, 1, "pasta", price, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddOrderItem(ctx, 1, "pasta", decimal.RequireFromString("-0.01"), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// Free table takes no orders
	_, err = svc.AddOrderItem(ctx, 2, "pasta", price, 1, nil)
	assert.ErrorIs(t, err, ErrTableNotOpen)

	// Reserved is not open either
	require.NoError(t, svc.Reserve(ctx, 2))
	_, err = svc.AddOrderItem(ctx, 2, "pasta", price, 1, nil)
	assert.ErrorIs(t, err, ErrTableNotOpen)

	_, err = svc.AddOrderItem(ctx, 404, "pasta", price, 1, nil)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestUpdateOrderItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1)
	require.NoError(t, svc.Seat(ctx, 1))

	item, err := svc.AddOrderItem(ctx, 1, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)

	notes := "sin queso"
	updated, err := svc.UpdateOrderItem(ctx, item.ID, 3, &notes)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, updated.Subtotal.Equal(decimal.RequireFromString("37.50")))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "sin queso", *updated.Notes)

	_, err = svc.UpdateOrderItem(ctx, item.ID, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateOrderItem(ctx, 404, 1, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateOrderItemAfterCheckout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1)
	require.NoError(t, svc.Seat(ctx, 1))

	item, err := svc.AddOrderItem(ctx, 1, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, 1, "F-1", "")
	require.NoError(t, err)

	// The entry is part of an issued invoice now
	_, err = svc.UpdateOrderItem(ctx, item.ID, 5, nil)
	assert.ErrorIs(t, err, ErrItemClosed)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 5)

	require.NoError(t, svc.Seat(ctx, 5))
	_, err := svc.AddOrderItem(ctx, 5, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(ctx, 5, "soda", decimal.RequireFromString("3.00"), 3, nil)
	require.NoError(t, err)

	inv, err := svc.Checkout(ctx, 5, "F-1001", "")
	require.NoError(t, err)

	assert.Equal(t, "F-1001", inv.Folio.Ref)
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("34.00")), "total = %s", inv.Total)
	for _, li := range inv.Items {
		require.NotNil(t, li.FolioID)
		assert.Equal(t, inv.Folio.ID, *li.FolioID)
	}

	assert.Equal(t, domain.TableFree, tableState(t, store, 5))

	open, err := store.Bills().OpenItems(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCheckoutEmptyBill(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1)
	require.NoError(t, svc.Seat(ctx, 1))

	_, err := svc.Checkout(ctx, 1, "F-1", "")
	assert.ErrorIs(t, err, ErrEmptyBill)

	// Failed checkout leaves the table occupied and the folio unwritten
	assert.Equal(t, domain.TableOccupied, tableState(t, store, 1))
	_, err = store.Bills().GetFolio(ctx, "F-1")
	assert.Error(t, err)
}

func TestCheckoutNotOpen(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1, 2)

	_, err := svc.Checkout(ctx, 1, "F-1", "")
	assert.ErrorIs(t, err, ErrTableNotOpen)

	require.NoError(t, svc.Reserve(ctx, 2))
	_, err = svc.Checkout(ctx, 2, "F-2", "")
	assert.ErrorIs(t, err, ErrTableNotOpen)

	_, err = svc.Checkout(ctx, 404, "F-3", "")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCheckoutDuplicateFolio(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1, 2)
	price := decimal.RequireFromString("5.00")

	require.NoError(t, svc.Seat(ctx, 1))
	_, err := svc.AddOrderItem(ctx, 1, "cafe", price, 1, nil)
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, 1, "F-1", "")
	require.NoError(t, err)

	require.NoError(t, svc.Seat(ctx, 2))
	_, err = svc.AddOrderItem(ctx, 2, "cafe", price, 1, nil)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, 2, "F-1", "")
	assert.ErrorIs(t, err, ErrFolioTaken)

	// The losing checkout rolled back whole: table still occupied,
	// items still open.
	assert.Equal(t, domain.TableOccupied, tableState(t, store, 2))
	open, err := store.Bills().OpenItems(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestCheckoutTwiceSecondLoses(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, 1)

	require.NoError(t, svc.Seat(ctx, 1))
	_, err := svc.AddOrderItem(ctx, 1, "pasta", decimal.RequireFromString("12.50"), 2, nil)
	require.NoError(t, err)

	first, err := svc.Checkout(ctx, 1, "F-1", "")
	require.NoError(t, err)

	// Second attempt finds the table no longer occupied; nothing moves.
	_, err = svc.Checkout(ctx, 1, "F-2", "")
	assert.ErrorIs(t, err, ErrTableNotOpen)

	assert.Equal(t, domain.TableFree, tableState(t, store, 1))
	items, err := store.Bills().ItemsByFolio(ctx, first.Folio.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
