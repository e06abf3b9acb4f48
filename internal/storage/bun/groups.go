package bunrepo

import (
	"context"
	"errors"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type GroupRepository struct {
	base baseRepository[domain.Group]
}

func NewGroupRepository(db *bun.DB) *GroupRepository {
	handlers := repository.ModelHandlers[*domain.Group]{
		NewRecord: func() *domain.Group { return &domain.Group{} },
		GetID:     func(g *domain.Group) uuid.UUID { return g.ID },
		SetID: func(g *domain.Group, id uuid.UUID) {
			g.ID = id
		},
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(g *domain.Group) string { return g.Name },
	}
	return &GroupRepository{
		base: newBaseRepository[domain.Group](db, handlers, func(g *domain.Group) *domain.RecordMeta { return &g.RecordMeta }),
	}
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	if group == nil {
		return store.ErrNotFound
	}
	if group.Name == "" {
		return errors.New("group name is required")
	}
	return r.base.createUnique(ctx, group, withField("name", group.Name))
}

func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	return r.base.update(ctx, group)
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return r.base.first(ctx, withField("name", name))
}

func (r *GroupRepository) ListOrdered(ctx context.Context) ([]domain.Group, error) {
	return r.base.all(ctx, byPosition())
}

func (r *GroupRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Group], error) {
	return r.base.list(ctx, opts)
}

func (r *GroupRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
