// Package admin provisions the floor plan: creating table rows and
// saving layout geometry. Occupancy and billing never pass through here.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
	"github.com/JulianVillasenor/restaurante/internal/uow"
)

// Shapes the presentation layer knows how to draw.
var validShapes = map[string]bool{
	"rectangulo": true,
	"circulo":    true,
}

type Service struct {
	store  repository.Store
	co     uow.Coordinator
	cache  *redisrepo.Cache
	pubsub *redisrepo.TablesPubSub
}

func New(
	store repository.Store,
	co uow.Coordinator,
	cache *redisrepo.Cache,
	pubsub *redisrepo.TablesPubSub,
) *Service {
	return &Service{
		store:  store,
		co:     co,
		cache:  cache,
		pubsub: pubsub,
	}
}

// CreateTable provisions a table row. The id comes from the seating
// plan; new tables start Free.
//
// Returns:
//   - error: admin.ErrInvalidSeats / admin.ErrInvalidShape on bad input.
//   - error: admin.ErrTableExists if the id is already taken.
func (s *Service) CreateTable(ctx context.Context, id int64, seats int, g domain.Geometry) error {
	const op = "service.admin.CreateTable"

	if seats <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidSeats)
	}
	if !validShapes[g.Shape] {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidShape, g.Shape)
	}

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		t := domain.Table{
			ID:       id,
			Seats:    seats,
			State:    domain.TableFree,
			Geometry: g,
		}

		if err := tx.Tables().Create(ctx, t); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrTableExists)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		s.notify(after, id)
		return nil
	})

	return err
}

// Placement is one table's new floor-plan position in a layout save.
type Placement struct {
	TableID  int64
	Geometry domain.Geometry
}

// SaveLayout applies a whole floor-plan rearrangement as one atomic
// unit: either every table moves or none does, so two terminals never
// see a half-applied layout.
//
// Returns:
//   - error: admin.ErrTableNotFound if any placement references a
//     missing table; nothing is applied in that case.
func (s *Service) SaveLayout(ctx context.Context, placements []Placement) error {
	const op = "service.admin.SaveLayout"

	if len(placements) == 0 {
		return nil
	}

	for _, p := range placements {
		if !validShapes[p.Geometry.Shape] {
			return fmt.Errorf("%s: %w: %q", op, ErrInvalidShape, p.Geometry.Shape)
		}
	}

	err := s.co.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		for _, p := range placements {
			if err := tx.Tables().UpdateGeometry(ctx, p.TableID, p.Geometry); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s: table %d: %w", op, p.TableID, ErrTableNotFound)
				}
				return fmt.Errorf("%s: table %d: %w", op, p.TableID, err)
			}
		}

		if s.cache != nil {
			after(func(ctx context.Context) {
				_ = s.cache.Del(ctx, redisrepo.KeyFloorPlan())
			})
		}

		return nil
	})

	return err
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
