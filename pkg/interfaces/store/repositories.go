package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when a unique key is already taken.
var ErrDuplicate = errors.New("store: duplicate record")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Repository[domain.User]
	GetByName(ctx context.Context, name string) (*domain.User, error)
}

type GroupRepository interface {
	Repository[domain.Group]
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	// ListOrdered returns live groups by position, then creation time.
	ListOrdered(ctx context.Context) ([]domain.Group, error)
}

type MembershipRepository interface {
	Repository[domain.GroupMembership]
	// ListByUser returns live memberships by position, then creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GroupMembership, error)
	GetByUserAndGroup(ctx context.Context, userID uuid.UUID, group string) (*domain.GroupMembership, error)
}

type FileRepository interface {
	Repository[domain.File]
	GetByName(ctx context.Context, name string) (*domain.File, error)
}
