package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableState is the occupancy state of a table. It is persisted as a
// smallint (0, 1, 2); every other value is rejected at the read boundary.
type TableState int16

const (
	TableFree     TableState = 0
	TableOccupied TableState = 1
	TableReserved TableState = 2
)

var ErrInvalidState = fmt.Errorf("invalid table state")

// TableStateFromInt normalizes a persisted state value. No table may
// carry a state outside the three enumerated values, so a bad integer
// coming back from the store is an error, not a default.
func TableStateFromInt(v int16) (TableState, error) {
	switch s := TableState(v); s {
	case TableFree, TableOccupied, TableReserved:
		return s, nil
	default:
		return TableFree, fmt.Errorf("%w: %d", ErrInvalidState, v)
	}
}

func (s TableState) Valid() bool {
	return s == TableFree || s == TableOccupied || s == TableReserved
}

func (s TableState) String() string {
	switch s {
	case TableFree:
		return "free"
	case TableOccupied:
		return "occupied"
	case TableReserved:
		return "reserved"
	default:
		return fmt.Sprintf("TableState(%d)", int16(s))
	}
}

// Geometry is the floor-plan placement of a table. The core passes it
// through unchanged; only the presentation layer interprets it.
type Geometry struct {
	PosX   int    `json:"pos_x"`
	PosY   int    `json:"pos_y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Shape  string `json:"shape"` // "rectangulo" or "circulo"
}

// Table is one row of the mesas table: a physical seating unit with its
// occupancy state and floor-plan placement. IDs come from the seating
// plan, not from the store.
type Table struct {
	ID       int64      `json:"id"`
	Seats    int        `json:"seats"`
	State    TableState `json:"state"`
	Geometry Geometry   `json:"geometry"`
}

// LineItem is one row of the cuenta table: a billable entry on a table's
// tab. FolioID stays nil while the tab is open and is set exactly once,
// at checkout.
type LineItem struct {
	ID         int64           `json:"id"`
	TableID    int64           `json:"table_id"`
	ProductRef string          `json:"product_ref"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	FolioID    *int64          `json:"folio_id,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

// RecomputeSubtotal derives the subtotal from unit price and quantity.
// The stored subtotal is never trusted when either factor changes.
func (li *LineItem) RecomputeSubtotal() {
	li.Subtotal = Subtotal(li.UnitPrice, li.Quantity)
}

// Subtotal is unit price times quantity, exact under decimal arithmetic.
func Subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Closed reports whether the item has been stamped with a folio.
func (li *LineItem) Closed() bool {
	return li.FolioID != nil
}

// Folio is one row of the facturas table: an invoice reference written
// once at checkout, tied to the sale that produced it.
type Folio struct {
	ID        int64     `json:"id"`
	Ref       string    `json:"ref"`
	SaleID    uuid.UUID `json:"sale_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Invoice reconstructs a closed bill from its folio.
type Invoice struct {
	Folio Folio           `json:"folio"`
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// TotalOf sums the subtotals of a set of line items.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
