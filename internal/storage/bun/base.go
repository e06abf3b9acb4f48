package bunrepo

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type baseRepository[T any] struct {
	repo    repository.Repository[*T]
	db      *bun.DB
	extract func(*T) *domain.RecordMeta
}

func newBaseRepository[T any](db *bun.DB, handlers repository.ModelHandlers[*T], extract func(*T) *domain.RecordMeta) baseRepository[T] {
	return baseRepository[T]{
		repo:    repository.MustNewRepository[*T](db, handlers),
		db:      db,
		extract: extract,
	}
}

func (r baseRepository[T]) create(ctx context.Context, record *T) error {
	base := r.extract(record)
	base.EnsureID()
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	_, err := r.repo.CreateTx(ctx, r.idb(ctx), record)
	return mapError(err)
}

// createUnique rejects record when a live row already matches criteria.
func (r baseRepository[T]) createUnique(ctx context.Context, record *T, criteria ...repository.SelectCriteria) error {
	_, err := r.first(ctx, criteria...)
	switch {
	case err == nil:
		return store.ErrDuplicate
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	return r.create(ctx, record)
}

func (r baseRepository[T]) update(ctx context.Context, record *T) error {
	base := r.extract(record)
	base.UpdatedAt = time.Now().UTC()
	_, err := r.repo.UpdateTx(ctx, r.idb(ctx), record)
	return mapError(err)
}

func (r baseRepository[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	criteria := []repository.SelectCriteria{withID(id)}
	if !includeDeleted {
		criteria = append(criteria, withoutDeleted())
	}
	record, err := r.repo.GetTx(ctx, r.idb(ctx), criteria...)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

// first returns the first live record matching criteria.
func (r baseRepository[T]) first(ctx context.Context, criteria ...repository.SelectCriteria) (*T, error) {
	criteria = append(criteria, withoutDeleted())
	record, err := r.repo.GetTx(ctx, r.idb(ctx), criteria...)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

// all returns every live record matching criteria, without the pagination
// applied by the generic repository.
func (r baseRepository[T]) all(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	var items []T
	q := r.idb(ctx).NewSelect().Model(&items)
	for _, criterion := range append(criteria, withoutDeleted()) {
		q = criterion(q)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r baseRepository[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	criteria := []repository.SelectCriteria{withListOptions(opts)}
	records, total, err := r.repo.ListTx(ctx, r.idb(ctx), criteria...)
	if err != nil {
		return store.ListResult[T]{}, mapError(err)
	}
	items := make([]T, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return store.ListResult[T]{Items: items, Total: total}, nil
}

func (r baseRepository[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	record, err := r.getByID(ctx, id, true)
	if err != nil {
		return err
	}
	base := r.extract(record)
	base.DeletedAt = time.Now().UTC()
	_, err = r.repo.UpdateTx(ctx, r.idb(ctx), record)
	return mapError(err)
}

// idb returns the transaction carried by ctx, falling back to the database.
func (r baseRepository[T]) idb(ctx context.Context) bun.IDB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return store.ErrNotFound
	}
	return err
}
