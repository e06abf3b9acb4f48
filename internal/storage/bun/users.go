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

type UserRepository struct {
	base baseRepository[domain.User]
}

func NewUserRepository(db *bun.DB) *UserRepository {
	handlers := repository.ModelHandlers[*domain.User]{
		NewRecord: func() *domain.User { return &domain.User{} },
		GetID:     func(u *domain.User) uuid.UUID { return u.ID },
		SetID: func(u *domain.User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(u *domain.User) string { return u.Name },
	}
	return &UserRepository{
		base: newBaseRepository[domain.User](db, handlers, func(u *domain.User) *domain.RecordMeta { return &u.RecordMeta }),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return store.ErrNotFound
	}
	if user.Name == "" {
		return errors.New("user name is required")
	}
	return r.base.createUnique(ctx, user, withField("name", user.Name))
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.base.update(ctx, user)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.base.first(ctx, withField("name", name))
}

func (r *UserRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
