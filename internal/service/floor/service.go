// Package floor is the read side: the floor plan, a table's open tab
// with its running total, and historical invoices by folio. Reads come
// straight from the store per call; the optional cache only bounds load,
// staleness is bounded by its short TTLs and by write-side invalidation.
package floor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
)

type Config struct {
	FloorPlanTTL time.Duration
	OpenTabTTL   time.Duration
}

// Tab is a table's open bill as shown on a terminal: the items in the
// order they were rung up, plus the running total.
type Tab struct {
	TableID int64             `json:"table_id"`
	Items   []domain.LineItem `json:"items"`
	Total   decimal.Decimal   `json:"total"`
}

type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

// New wires the read side. cache may be nil; every read then goes to the
// store directly.
func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FloorPlanTTL <= 0 {
		cfg.FloorPlanTTL = 5 * time.Second
	}
	if cfg.OpenTabTTL <= 0 {
		cfg.OpenTabTTL = 3 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// FloorPlan returns every table in storage order, for rendering the
// seating map. An empty floor plan is an empty slice, not an error.
func (s *Service) FloorPlan(ctx context.Context) ([]domain.Table, error) {
	const op = "service.floor.FloorPlan"

	if s.cache == nil {
		tables, err := s.store.Tables().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return tables, nil
	}

	tables, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyFloorPlan(),
		s.cfg.FloorPlanTTL,
		func(ctx context.Context) ([]domain.Table, error) {
			return s.store.Tables().List(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tables, nil
}

// TableByID retrieves one table.
//
// Returns:
//   - error: floor.ErrTableNotFound if the table does not exist.
func (s *Service) TableByID(ctx context.Context, id int64) (*domain.Table, error) {
	const op = "service.floor.TableByID"

	t, err := s.store.Tables().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTableNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// OpenTab returns the table's open items, id ascending, with the running
// total. The table must exist; a table with no open items yields an
// empty tab with total zero.
func (s *Service) OpenTab(ctx context.Context, tableID int64) (*Tab, error) {
	const op = "service.floor.OpenTab"

	load := func(ctx context.Context) (Tab, error) {
		if _, err := s.store.Tables().Get(ctx, tableID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Tab{}, ErrTableNotFound
			}
			return Tab{}, err
		}

		items, err := s.store.Bills().OpenItems(ctx, tableID)
		if err != nil {
			return Tab{}, err
		}

		return Tab{
			TableID: tableID,
			Items:   items,
			Total:   domain.TotalOf(items),
		}, nil
	}

	if s.cache == nil {
		tab, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &tab, nil
	}

	tab, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTableTab(tableID),
		s.cfg.OpenTabTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tab, nil
}

// InvoiceByFolio reconstructs a closed bill from its folio reference.
//
// Returns:
//   - error: floor.ErrFolioNotFound if the reference is unknown.
func (s *Service) InvoiceByFolio(ctx context.Context, folioRef string) (*domain.Invoice, error) {
	const op = "service.floor.InvoiceByFolio"

	folio, err := s.store.Bills().GetFolio(ctx, folioRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFolioNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.store.Bills().ItemsByFolio(ctx, folio.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Invoice{
		Folio: *folio,
		Items: items,
		Total: domain.TotalOf(items),
	}, nil
}
