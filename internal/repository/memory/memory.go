// Package memory implements the repository contract over plain maps.
// It exists so the services and the HTTP layer can be exercised without
// a running Postgres; the coordinator emulates transactional rollback
// with a snapshot of the whole store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	"github.com/JulianVillasenor/restaurante/internal/uow"
)

type state struct {
	tables     map[int64]domain.Table
	tableOrder []int64
	items      map[int64]domain.LineItem
	nextItemID int64
	folios     map[int64]domain.Folio
	folioByRef map[string]int64
	nextFolio  int64
}

func newState() *state {
	return &state{
		tables:     map[int64]domain.Table{},
		items:      map[int64]domain.LineItem{},
		nextItemID: 1,
		folios:     map[int64]domain.Folio{},
		folioByRef: map[string]int64{},
		nextFolio:  1,
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.tables {
		cp.tables[k] = v
	}
	cp.tableOrder = append([]int64(nil), s.tableOrder...)
	for k, v := range s.items {
		cp.items[k] = v
	}
	cp.nextItemID = s.nextItemID
	for k, v := range s.folios {
		cp.folios[k] = v
	}
	for k, v := range s.folioByRef {
		cp.folioByRef[k] = v
	}
	cp.nextFolio = s.nextFolio
	return cp
}

// Store is a map-backed repository.Store. A single mutex serializes all
// operations, which also gives the coordinator its isolation.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Tables() repository.Tables { return &tableRepo{s: s} }
func (s *Store) Bills() repository.Bills   { return &billRepo{s: s} }

// Coordinator runs a unit of work against the store, restoring the
// pre-call snapshot when the unit fails. After-commit hooks run only on
// success, mirroring the Postgres unit of work.
type Coordinator struct {
	store *Store
	txMu  sync.Mutex
}

func NewCoordinator(store *Store) *Coordinator {
	return &Coordinator{store: store}
}

func (c *Coordinator) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error,
) error {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	c.store.mu.Lock()
	snapshot := c.store.st.clone()
	c.store.mu.Unlock()

	var hooks []uow.AfterCommit

	err := fn(ctx, c.store, func(h uow.AfterCommit) {
		hooks = append(hooks, h)
	})
	if err != nil {
		c.store.mu.Lock()
		c.store.st = snapshot
		c.store.mu.Unlock()
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}

type tableRepo struct {
	s *Store
}

func (r *tableRepo) List(ctx context.Context) ([]domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []domain.Table{}
	for _, id := range r.s.st.tableOrder {
		out = append(out, r.s.st.tables[id])
	}
	return out, nil
}

func (r *tableRepo) Get(ctx context.Context, id int64) (*domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tables[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *tableRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Table, error) {
	// The store-wide mutex already serializes writers.
	return r.Get(ctx, id)
}

func (r *tableRepo) SetState(ctx context.Context, id int64, st domain.TableState) error {
	if !st.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidState, st)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tables[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.State = st
	r.s.st.tables[id] = t
	return nil
}

func (r *tableRepo) Create(ctx context.Context, t domain.Table) error {
	if !t.State.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidState, t.State)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.tables[t.ID]; ok {
		return repository.ErrConflict
	}
	r.s.st.tables[t.ID] = t
	r.s.st.tableOrder = append(r.s.st.tableOrder, t.ID)
	return nil
}

func (r *tableRepo) UpdateGeometry(ctx context.Context, id int64, g domain.Geometry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tables[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Geometry = g
	r.s.st.tables[id] = t
	return nil
}

type billRepo struct {
	s *Store
}

func (r *billRepo) AddItem(ctx context.Context, item domain.LineItem) (*domain.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.tables[item.TableID]; !ok {
		return nil, repository.ErrNotFound
	}

	item.ID = r.s.st.nextItemID
	r.s.st.nextItemID++
	r.s.st.items[item.ID] = item
	return &item, nil
}

func (r *billRepo) OpenItems(ctx context.Context, tableID int64) ([]domain.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(li domain.LineItem) bool {
		return li.TableID == tableID && li.FolioID == nil
	}), nil
}

func (r *billRepo) GetItem(ctx context.Context, id int64) (*domain.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	li, ok := r.s.st.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &li, nil
}

func (r *billRepo) UpdateItem(
	ctx context.Context,
	id int64,
	quantity int,
	subtotal decimal.Decimal,
	notes *string,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	li, ok := r.s.st.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if li.FolioID != nil {
		return repository.ErrConflict
	}
	li.Quantity = quantity
	li.Subtotal = subtotal
	li.Notes = notes
	r.s.st.items[id] = li
	return nil
}

func (r *billRepo) CreateFolio(ctx context.Context, ref string, saleID uuid.UUID) (*domain.Folio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.folioByRef[ref]; ok {
		return nil, repository.ErrConflict
	}

	f := domain.Folio{
		ID:     r.s.st.nextFolio,
		Ref:    ref,
		SaleID: saleID,
	}
	r.s.st.nextFolio++
	r.s.st.folios[f.ID] = f
	r.s.st.folioByRef[ref] = f.ID
	return &f, nil
}

func (r *billRepo) StampFolio(ctx context.Context, tableID, folioID int64) ([]domain.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var stamped []domain.LineItem
	for _, li := range r.collect(func(li domain.LineItem) bool {
		return li.TableID == tableID && li.FolioID == nil
	}) {
		fid := folioID
		li.FolioID = &fid
		r.s.st.items[li.ID] = li
		stamped = append(stamped, li)
	}

	if len(stamped) == 0 {
		return nil, repository.ErrNoOpenItems
	}

	return stamped, nil
}

func (r *billRepo) GetFolio(ctx context.Context, ref string) (*domain.Folio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.st.folioByRef[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f := r.s.st.folios[id]
	return &f, nil
}

func (r *billRepo) ItemsByFolio(ctx context.Context, folioID int64) ([]domain.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(li domain.LineItem) bool {
		return li.FolioID != nil && *li.FolioID == folioID
	}), nil
}

// collect returns matching items id-ascending. Callers hold the lock.
func (r *billRepo) collect(match func(domain.LineItem) bool) []domain.LineItem {
	out := []domain.LineItem{}
	for id := int64(1); id < r.s.st.nextItemID; id++ {
		if li, ok := r.s.st.items[id]; ok && match(li) {
			out = append(out, li)
		}
	}
	return out
}
