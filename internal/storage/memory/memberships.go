package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/google/uuid"
)

type MembershipRepository struct {
	base baseMemoryRepo[domain.GroupMembership]
}

func NewMembershipRepository() *MembershipRepository {
	return &MembershipRepository{
		base: newBaseMemoryRepo("membership", func(m *domain.GroupMembership) *domain.RecordMeta { return &m.RecordMeta }),
	}
}

func (r *MembershipRepository) Create(ctx context.Context, record *domain.GroupMembership) error {
	if record == nil {
		return store.ErrNotFound
	}
	if record.UserID == uuid.Nil || record.Group == "" {
		return errors.New("membership requires user and group")
	}
	return r.base.create(ctx, record, func(existing *domain.GroupMembership) bool {
		return existing.UserID != record.UserID || existing.Group != record.Group
	})
}

func (r *MembershipRepository) Update(ctx context.Context, record *domain.GroupMembership) error {
	return r.base.update(ctx, record)
}

func (r *MembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupMembership, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *MembershipRepository) GetByUserAndGroup(ctx context.Context, userID uuid.UUID, group string) (*domain.GroupMembership, error) {
	return r.base.find(ctx, func(m *domain.GroupMembership) bool {
		return m.UserID == userID && m.Group == group
	})
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GroupMembership, error) {
	items := r.base.filter(ctx, func(m *domain.GroupMembership) bool { return m.UserID == userID })
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items, nil
}

func (r *MembershipRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.GroupMembership], error) {
	return r.base.list(ctx, opts)
}

func (r *MembershipRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
