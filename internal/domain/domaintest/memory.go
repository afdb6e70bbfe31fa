// Package domaintest provides in-memory implementations of the domain
// contracts for unit tests.
package domaintest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Record is what MemoryRepo needs from an entity.
type Record interface {
	entity.Validatable
	GetID() id.ID
	GetCode() string
	GetVersion() int
	SetVersion(v int)
	SetDeletionMark(marked bool)
}

// MemoryRepo is an in-memory domain.CatalogRepository. Domains in list
// filters are ignored; use Filter to emulate them.
type MemoryRepo[T Record] struct {
	mu    sync.Mutex
	items map[id.ID]T
	order []id.ID

	entity string

	// Filter, when set, is applied to List results.
	Filter func(f domain.ListFilter, item T) bool

	// Referenced, when set, rejects Delete with CONFLICT.
	Referenced func(entityID id.ID) bool
}

// NewMemoryRepo creates an empty repository.
func NewMemoryRepo[T Record](entityName string, items ...T) *MemoryRepo[T] {
	r := &MemoryRepo[T]{
		items:  make(map[id.ID]T),
		entity: entityName,
	}
	for _, it := range items {
		r.put(it)
	}
	return r
}

var _ domain.CatalogRepository[*fakeRecord] = (*MemoryRepo[*fakeRecord])(nil)

type fakeRecord struct{ entity.Catalog }

func (f *fakeRecord) Validate(ctx context.Context) error { return f.Catalog.Validate(ctx) }

func (r *MemoryRepo[T]) put(item T) {
	if _, ok := r.items[item.GetID()]; !ok {
		r.order = append(r.order, item.GetID())
	}
	r.items[item.GetID()] = item
}

// Create implements domain.CatalogRepository.
func (r *MemoryRepo[T]) Create(_ context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.GetID()]; ok {
		return apperror.NewDuplicate(r.entity, "id", item.GetID().String())
	}
	r.put(item)
	return nil
}

// GetByID implements domain.CatalogRepository.
func (r *MemoryRepo[T]) GetByID(_ context.Context, entityID id.ID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[entityID]
	if !ok {
		return item, apperror.NewNotFound(r.entity, entityID.String())
	}
	return item, nil
}

// GetByCode implements domain.CatalogRepository.
func (r *MemoryRepo[T]) GetByCode(_ context.Context, code string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.order {
		if it := r.items[k]; it.GetCode() == code {
			return it, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(r.entity, code)
}

// Update implements domain.CatalogRepository with version checks.
func (r *MemoryRepo[T]) Update(_ context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[item.GetID()]
	if !ok {
		return apperror.NewNotFound(r.entity, item.GetID().String())
	}
	if any(cur) != any(item) && cur.GetVersion() != item.GetVersion() {
		return apperror.NewConcurrentModification(r.entity, item.GetID())
	}
	item.SetVersion(item.GetVersion() + 1)
	r.items[item.GetID()] = item
	return nil
}

// Delete implements domain.CatalogRepository.
func (r *MemoryRepo[T]) Delete(_ context.Context, entityID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[entityID]; !ok {
		return apperror.NewNotFound(r.entity, entityID.String())
	}
	if r.Referenced != nil && r.Referenced(entityID) {
		return apperror.NewConflict("record is referenced by other records or references a missing one").
			WithDetail("entity", r.entity)
	}
	delete(r.items, entityID)
	for i, k := range r.order {
		if k == entityID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetDeletionMark implements domain.CatalogRepository.
func (r *MemoryRepo[T]) SetDeletionMark(_ context.Context, entityID id.ID, marked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[entityID]
	if !ok {
		return apperror.NewNotFound(r.entity, entityID.String())
	}
	item.SetDeletionMark(marked)
	return nil
}

// List implements domain.CatalogRepository.
func (r *MemoryRepo[T]) List(_ context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[id.ID]bool, len(f.IDs))
	for _, v := range f.IDs {
		ids[v] = true
	}

	var items []T
	for _, k := range r.order {
		it := r.items[k]
		if len(ids) > 0 && !ids[k] {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.GetCode()), strings.ToLower(f.Search)) {
			continue
		}
		if r.Filter != nil && !r.Filter(f, it) {
			continue
		}
		items = append(items, it)
	}

	res := domain.ListResult[T]{TotalCount: int64(len(items)), Limit: f.Limit, Offset: f.Offset}
	if f.Offset > 0 {
		if f.Offset >= len(items) {
			items = nil
		} else {
			items = items[f.Offset:]
		}
	}
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	res.Items = items
	return res, nil
}

// Exists implements domain.CatalogRepository.
func (r *MemoryRepo[T]) Exists(_ context.Context, entityID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[entityID]
	return ok, nil
}

// ExistsByCode implements domain.CatalogRepository.
func (r *MemoryRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// GetTree implements domain.CatalogRepository. Hierarchy is not modelled.
func (r *MemoryRepo[T]) GetTree(_ context.Context, _ *id.ID) ([]T, error) {
	return r.All(), nil
}

// GetPath implements domain.CatalogRepository. Hierarchy is not modelled.
func (r *MemoryRepo[T]) GetPath(ctx context.Context, entityID id.ID) ([]T, error) {
	item, err := r.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return []T{item}, nil
}

// All returns the items in insertion order.
func (r *MemoryRepo[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.items[k])
	}
	return out
}

// Len returns the number of stored items.
func (r *MemoryRepo[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// SortedIDs returns the stored ids as sorted strings.
func (r *MemoryRepo[T]) SortedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for k := range r.items {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}
