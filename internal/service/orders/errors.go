package orders

import "errors"

var (
	ErrTableNotFound   = errors.New("table not found")
	ErrAlreadyOccupied = errors.New("table already occupied")
	ErrAlreadyReserved = errors.New("table already reserved")
	ErrTableNotOpen    = errors.New("table is not open")
	ErrOpenItems       = errors.New("table still has open items")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
	ErrEmptyBill       = errors.New("no open items to invoice")
	ErrItemNotFound    = errors.New("line item not found")
	ErrItemClosed      = errors.New("line item already invoiced")
	ErrFolioTaken      = errors.New("folio reference already used")
	ErrRateLimited     = errors.New("rate limited")
)
