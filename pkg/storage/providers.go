package storage

import (
	"context"

	bunrepo "github.com/goliatone/go-groupbadges/internal/storage/bun"
	"github.com/goliatone/go-groupbadges/internal/storage/memory"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// MetricsCollector enables downstream observers to record repo timings.
type MetricsCollector interface {
	Record(operation string, labels map[string]string)
}

// Providers exposes the reference host stores.
type Providers struct {
	Users       store.UserRepository
	Groups      store.GroupRepository
	Memberships store.MembershipRepository
	Files       store.FileRepository
	Transaction store.TransactionManager
	Metrics     MetricsCollector
}

type Option func(*Providers)

// WithMetricsCollector registers a metrics collector returned alongside repos.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(p *Providers) {
		p.Metrics = collector
	}
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders(opts ...Option) Providers {
	providers := Providers{
		Users:       memory.NewUserRepository(),
		Groups:      memory.NewGroupRepository(),
		Memberships: memory.NewMembershipRepository(),
		Files:       memory.NewFileRepository(),
		Transaction: &store.NopTransactionManager{},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller is responsible for creating the *bun.DB instance (potentially
// via go-persistence-bun) and managing its lifecycle.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*domain.User)(nil),
		(*domain.Group)(nil),
		(*domain.GroupMembership)(nil),
		(*domain.File)(nil),
	)

	providers := Providers{
		Users:       bunrepo.NewUserRepository(db),
		Groups:      bunrepo.NewGroupRepository(db),
		Memberships: bunrepo.NewMembershipRepository(db),
		Files:       bunrepo.NewFileRepository(db),
		Transaction: bunrepo.NewTxManager(db),
	}

	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// CreateSchema creates the reference tables on db when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	return bunrepo.CreateSchema(ctx, db)
}
