// Package repository defines the storage contract the services program
// against. The postgres package implements it against the real store, the
// memory package against maps for tests; the uow package hands services a
// transaction-bound view of the same interfaces.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JulianVillasenor/restaurante/internal/domain"
)

// Tables persists table records. It is a dumb mapper: any state can be
// written over any other, transition policy lives in the services.
type Tables interface {
	// List returns every table in insertion order. No tables is an empty
	// slice, not an error.
	List(ctx context.Context) ([]domain.Table, error)
	// Get returns ErrNotFound when no row matches.
	Get(ctx context.Context, id int64) (*domain.Table, error)
	// GetForUpdate is Get plus a row lock held until the enclosing
	// transaction ends. Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, id int64) (*domain.Table, error)
	// SetState persists a new occupancy state. ErrNotFound when the table
	// does not exist; domain.ErrInvalidState when the value is out of range.
	SetState(ctx context.Context, id int64, state domain.TableState) error
	// Create provisions a table row with an externally assigned id.
	Create(ctx context.Context, t domain.Table) error
	// UpdateGeometry overwrites floor-plan placement only.
	UpdateGeometry(ctx context.Context, id int64, g domain.Geometry) error
}

// Bills persists line items and folio associations.
type Bills interface {
	// AddItem inserts a line item and returns it with the generated id.
	AddItem(ctx context.Context, item domain.LineItem) (*domain.LineItem, error)
	// OpenItems returns the table's open tab: items with no folio, id
	// ascending so totals are reproducible.
	OpenItems(ctx context.Context, tableID int64) ([]domain.LineItem, error)
	// GetItem returns ErrNotFound when no row matches.
	GetItem(ctx context.Context, id int64) (*domain.LineItem, error)
	// UpdateItem rewrites quantity, notes and the derived subtotal of an
	// open item. ErrConflict when the item already carries a folio.
	UpdateItem(ctx context.Context, id int64, quantity int, subtotal decimal.Decimal, notes *string) error
	// CreateFolio writes the folio record once. ErrConflict on a duplicate
	// folio reference.
	CreateFolio(ctx context.Context, ref string, saleID uuid.UUID) (*domain.Folio, error)
	// StampFolio tags every open item of the table with the folio and
	// returns the affected items, id ascending. ErrNoOpenItems when the
	// tab is empty.
	StampFolio(ctx context.Context, tableID, folioID int64) ([]domain.LineItem, error)
	// GetFolio returns ErrNotFound when the reference is unknown.
	GetFolio(ctx context.Context, ref string) (*domain.Folio, error)
	// ItemsByFolio reconstructs a historical invoice, id ascending.
	ItemsByFolio(ctx context.Context, folioID int64) ([]domain.LineItem, error)
}

// Store groups the repositories over one backing store. Implementations
// bound to a transaction make every call part of that transaction.
type Store interface {
	Tables() Tables
	Bills() Bills
}
