package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/google/uuid"
)

// baseMemoryRepo keeps records keyed by id and remembers insertion order so
// listings are stable even when timestamps collide.
type baseMemoryRepo[T any] struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]T
	order     []uuid.UUID
	extract   func(*T) *domain.RecordMeta
	entityStr string
}

func newBaseMemoryRepo[T any](entity string, extract func(*T) *domain.RecordMeta) baseMemoryRepo[T] {
	return baseMemoryRepo[T]{
		records:   make(map[uuid.UUID]T),
		extract:   extract,
		entityStr: entity,
	}
}

// create stores record. unique, when set, runs under the write lock and
// rejects the record when it returns false.
func (r *baseMemoryRepo[T]) create(ctx context.Context, record *T, unique func(existing *T) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if unique != nil {
		for _, id := range r.order {
			existing := r.records[id]
			if !r.extract(&existing).DeletedAt.IsZero() {
				continue
			}
			if !unique(&existing) {
				return store.ErrDuplicate
			}
		}
	}

	base := r.extract(record)
	base.EnsureID()
	if _, exists := r.records[base.ID]; exists {
		return store.ErrDuplicate
	}
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	r.records[base.ID] = *record
	r.order = append(r.order, base.ID)
	return nil
}

func (r *baseMemoryRepo[T]) update(ctx context.Context, record *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.extract(record)
	if base.ID == uuid.Nil {
		return store.ErrNotFound
	}
	if _, ok := r.records[base.ID]; !ok {
		return store.ErrNotFound
	}
	base.UpdatedAt = time.Now().UTC()
	r.records[base.ID] = *record
	return nil
}

func (r *baseMemoryRepo[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	base := r.extract(&record)
	if !includeDeleted && !base.DeletedAt.IsZero() {
		return nil, store.ErrNotFound
	}
	copy := record
	return &copy, nil
}

// find returns the first live record accepted by match.
func (r *baseMemoryRepo[T]) find(ctx context.Context, match func(*T) bool) (*T, error) {
	items := r.filter(ctx, match)
	if len(items) == 0 {
		return nil, store.ErrNotFound
	}
	return &items[0], nil
}

// filter returns live records accepted by match in insertion order.
func (r *baseMemoryRepo[T]) filter(ctx context.Context, match func(*T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []T
	for _, id := range r.order {
		record := r.records[id]
		if !r.extract(&record).DeletedAt.IsZero() {
			continue
		}
		if match != nil && !match(&record) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func (r *baseMemoryRepo[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []T
	for _, id := range r.order {
		record := r.records[id]
		base := r.extract(&record)
		if !opts.IncludeSoftDeleted && !base.DeletedAt.IsZero() {
			continue
		}
		if !opts.Since.IsZero() && base.CreatedAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && base.CreatedAt.After(opts.Until) {
			continue
		}
		filtered = append(filtered, record)
	}

	total := len(filtered)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	result := store.ListResult[T]{
		Items: filtered[start:end],
		Total: total,
	}
	return result, nil
}

func (r *baseMemoryRepo[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return store.ErrNotFound
	}
	base := r.extract(&record)
	if base.DeletedAt.IsZero() {
		base.DeletedAt = time.Now().UTC()
	}
	r.records[id] = record
	return nil
}
