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

type MembershipRepository struct {
	base baseRepository[domain.GroupMembership]
}

func NewMembershipRepository(db *bun.DB) *MembershipRepository {
	handlers := repository.ModelHandlers[*domain.GroupMembership]{
		NewRecord: func() *domain.GroupMembership { return &domain.GroupMembership{} },
		GetID:     func(m *domain.GroupMembership) uuid.UUID { return m.ID },
		SetID: func(m *domain.GroupMembership, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(m *domain.GroupMembership) string { return m.ID.String() },
	}
	return &MembershipRepository{
		base: newBaseRepository[domain.GroupMembership](db, handlers, func(m *domain.GroupMembership) *domain.RecordMeta { return &m.RecordMeta }),
	}
}

func (r *MembershipRepository) Create(ctx context.Context, membership *domain.GroupMembership) error {
	if membership == nil {
		return store.ErrNotFound
	}
	if membership.UserID == uuid.Nil || membership.Group == "" {
		return errors.New("membership requires user and group")
	}
	return r.base.createUnique(ctx, membership,
		withField("user_id", membership.UserID),
		withField("group_name", membership.Group),
	)
}

func (r *MembershipRepository) Update(ctx context.Context, membership *domain.GroupMembership) error {
	return r.base.update(ctx, membership)
}

func (r *MembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupMembership, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *MembershipRepository) GetByUserAndGroup(ctx context.Context, userID uuid.UUID, group string) (*domain.GroupMembership, error) {
	return r.base.first(ctx, withField("user_id", userID), withField("group_name", group))
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GroupMembership, error) {
	return r.base.all(ctx, withField("user_id", userID), byPosition())
}

func (r *MembershipRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.GroupMembership], error) {
	return r.base.list(ctx, opts)
}

func (r *MembershipRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
