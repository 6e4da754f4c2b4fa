// Package orders holds the write-side policy for tables and their bills:
// which occupancy transitions are legal, when items may be added or
// edited, and the atomic checkout that frees a table and stamps its tab
// with a folio in one step.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
	"github.com/JulianVillasenor/restaurante/internal/uow"
)

type Service struct {
	store   repository.Store
	co      uow.Coordinator
	cache   *redisrepo.Cache
	pubsub  *redisrepo.TablesPubSub
	limiter *redisrepo.SlidingWindowLimiter
}

// New wires the write side. cache, pubsub and limiter may be nil; the
// service then runs without read-cache invalidation, change broadcasts
// or checkout throttling.
func New(
	store repository.Store,
	co uow.Coordinator,
	cache *redisrepo.Cache,
	pubsub *redisrepo.TablesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
) *Service {
	return &Service{
		store:   store,
		co:      co,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
	}
}

// Seat transitions a table to Occupied.
//
// Returns:
//   - error: orders.ErrTableNotFound if the table does not exist.
//   - error: orders.ErrAlreadyOccupied unless the table is Free or Reserved.
func (s *Service) Seat(ctx context.Context, tableID int64) error {
	const op = "service.orders.Seat"

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		if t.State == domain.TableOccupied {
			return fmt.Errorf("%s: %w", op, ErrAlreadyOccupied)
		}

		if err := tx.Tables().SetState(ctx, tableID, domain.TableOccupied); err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		s.notify(after, tableID)
		return nil
	})

	return err
}

// Reserve transitions a Free table to Reserved.
//
// Returns:
//   - error: orders.ErrAlreadyOccupied if the table is Occupied.
//   - error: orders.ErrAlreadyReserved if it is already Reserved.
func (s *Service) Reserve(ctx context.Context, tableID int64) error {
	const op = "service.orders.Reserve"

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		switch t.State {
		case domain.TableOccupied:
			return fmt.Errorf("%s: %w", op, ErrAlreadyOccupied)
		case domain.TableReserved:
			return fmt.Errorf("%s: %w", op, ErrAlreadyReserved)
		}

		if err := tx.Tables().SetState(ctx, tableID, domain.TableReserved); err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		s.notify(after, tableID)
		return nil
	})

	return err
}

// Release returns a table to Free: a cancelled reservation, or an
// occupied table whose party left without ordering. An occupied table
// with open items cannot be released; those items must be invoiced
// (Checkout) first, or the money trail would dangle.
func (s *Service) Release(ctx context.Context, tableID int64) error {
	const op = "service.orders.Release"

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		if t.State == domain.TableFree {
			return nil
		}

		if t.State == domain.TableOccupied {
			open, err := tx.Bills().OpenItems(ctx, tableID)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if len(open) > 0 {
				return fmt.Errorf("%s: %w", op, ErrOpenItems)
			}
		}

		if err := tx.Tables().SetState(ctx, tableID, domain.TableFree); err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		s.notify(after, tableID)
		return nil
	})

	return err
}

// AddOrderItem appends an item to an occupied table's open tab. The
// subtotal is derived here; the store never receives one out of sync
// with price and quantity.
//
// Returns:
//   - *domain.LineItem: the persisted item with its generated id.
//   - error: orders.ErrInvalidQuantity / orders.ErrInvalidPrice on bad input.
//   - error: orders.ErrTableNotOpen unless the table is Occupied.
func (s *Service) AddOrderItem(
	ctx context.Context,
	tableID int64,
	productRef string,
	unitPrice decimal.Decimal,
	quantity int,
	notes *string,
) (*domain.LineItem, error) {
	const op = "service.orders.AddOrderItem"

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPrice)
	}

	item := domain.LineItem{
		TableID:    tableID,
		ProductRef: productRef,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		Notes:      notes,
	}
	item.RecomputeSubtotal()

	var out *domain.LineItem

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		if t.State != domain.TableOccupied {
			return fmt.Errorf("%s: %w", op, ErrTableNotOpen)
		}

		out, err = tx.Bills().AddItem(ctx, item)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		s.notify(after, tableID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdateOrderItem rewrites quantity and notes of an open item, deriving
// the subtotal again. An item already stamped with a folio is part of an
// issued invoice and refuses the edit.
//
// Returns:
//   - error: orders.ErrItemNotFound if the item does not exist.
//   - error: orders.ErrItemClosed if it already carries a folio.
func (s *Service) UpdateOrderItem(
	ctx context.Context,
	itemID int64,
	quantity int,
	notes *string,
) (*domain.LineItem, error) {
	const op = "service.orders.UpdateOrderItem"

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	var out *domain.LineItem

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		li, err := tx.Bills().GetItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrItemNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if li.Closed() {
			return fmt.Errorf("%s: %w", op, ErrItemClosed)
		}

		li.Quantity = quantity
		li.Notes = notes
		li.RecomputeSubtotal()

		if err := tx.Bills().UpdateItem(ctx, itemID, li.Quantity, li.Subtotal, li.Notes); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrItemClosed)
			}
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrItemNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		out = li
		s.notify(after, li.TableID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Checkout closes an occupied table's tab in one atomic unit: it writes
// the folio, stamps every open item with it, and frees the table. Either
// all of that commits or none of it; no observer ever sees a free table
// with un-invoiced items. Of two concurrent checkouts on the same table
// exactly one wins; the loser finds the table no longer Occupied.
//
// Parameters:
//   - rlKey: rate-limit bucket for the calling terminal; empty disables
//     throttling for this call.
//
// Returns:
//   - *domain.Invoice: folio, stamped items and the bill total.
//   - error: orders.ErrTableNotOpen unless the table is Occupied.
//   - error: orders.ErrEmptyBill when there is nothing to invoice.
//   - error: orders.ErrFolioTaken on a duplicate folio reference.
func (s *Service) Checkout(ctx context.Context, tableID int64, folioRef, rlKey string) (*domain.Invoice, error) {
	const op = "service.orders.Checkout"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w (retry in %s)", op, ErrRateLimited, retry)
		}
	}

	var inv *domain.Invoice

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		if t.State != domain.TableOccupied {
			return fmt.Errorf("%s: %w", op, ErrTableNotOpen)
		}

		folio, err := tx.Bills().CreateFolio(ctx, folioRef, uuid.New())
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrFolioTaken)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		items, err := tx.Bills().StampFolio(ctx, tableID, folio.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNoOpenItems) {
				return fmt.Errorf("%s: %w", op, ErrEmptyBill)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := tx.Tables().SetState(ctx, tableID, domain.TableFree); err != nil {
			return fmt.Errorf("%s: %w", op, tableErr(err))
		}

		inv = &domain.Invoice{
			Folio: *folio,
			Items: items,
			Total: domain.TotalOf(items),
		}

		s.notify(after, tableID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) notify(after func(uow.AfterCommit), tableID int64) {
	if s.cache == nil && s.pubsub == nil {
		return
	}

	after(func(ctx context.Context) {
		if s.cache != nil {
			_ = s.cache.InvalidateTable(ctx, tableID)
		}
		if s.pubsub != nil {
			_ = s.pubsub.PublishTableChanged(ctx, tableID)
		}
	})
}

func tableErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTableNotFound
	}
	return err
}
