package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/google/uuid"
)

type GroupRepository struct {
	base baseMemoryRepo[domain.Group]
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		base: newBaseMemoryRepo("group", func(g *domain.Group) *domain.RecordMeta { return &g.RecordMeta }),
	}
}

func (r *GroupRepository) Create(ctx context.Context, record *domain.Group) error {
	if record == nil {
		return store.ErrNotFound
	}
	if record.Name == "" {
		return errors.New("group name is required")
	}
	return r.base.create(ctx, record, func(existing *domain.Group) bool {
		return existing.Name != record.Name
	})
}

func (r *GroupRepository) Update(ctx context.Context, record *domain.Group) error {
	return r.base.update(ctx, record)
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return r.base.find(ctx, func(g *domain.Group) bool { return g.Name == name })
}

func (r *GroupRepository) ListOrdered(ctx context.Context) ([]domain.Group, error) {
	groups := r.base.filter(ctx, nil)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Position < groups[j].Position
	})
	return groups, nil
}

func (r *GroupRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Group], error) {
	return r.base.list(ctx, opts)
}

func (r *GroupRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
