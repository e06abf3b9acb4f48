package memory

import (
	"context"
	"errors"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/google/uuid"
)

type UserRepository struct {
	base baseMemoryRepo[domain.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		base: newBaseMemoryRepo("user", func(u *domain.User) *domain.RecordMeta { return &u.RecordMeta }),
	}
}

func (r *UserRepository) Create(ctx context.Context, record *domain.User) error {
	if record == nil {
		return store.ErrNotFound
	}
	if record.Name == "" {
		return errors.New("user name is required")
	}
	return r.base.create(ctx, record, func(existing *domain.User) bool {
		return existing.Name != record.Name
	})
}

func (r *UserRepository) Update(ctx context.Context, record *domain.User) error {
	return r.base.update(ctx, record)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.base.getByID(ctx, id, false)
}

// GetByName matches the normalized name exactly, like the host user table.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.base.find(ctx, func(u *domain.User) bool { return u.Name == name })
}

func (r *UserRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
