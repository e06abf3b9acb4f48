// Package host declares the services a wiki engine supplies to the badge
// hooks. Implementations live with the host; pkg/storage ships reference
// ones backed by memory or bun.
package host

import (
	"context"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
)

// ErrNotFound is returned by lookups that find nothing.
var ErrNotFound = store.ErrNotFound

// GroupCatalog enumerates every group the permission system knows about.
type GroupCatalog interface {
	ListAllGroups(ctx context.Context) ([]string, error)
}

// UserLookup resolves an account by its normalized name.
type UserLookup interface {
	FindUserByName(ctx context.Context, name string) (*domain.User, error)
}

// MembershipLookup returns the current groups of a user in host order.
type MembershipLookup interface {
	UserGroups(ctx context.Context, user *domain.User) ([]string, error)
}

// FileRepository finds media files by name (without namespace prefix).
type FileRepository interface {
	FindFile(ctx context.Context, name string) (*domain.File, error)
}

// Directory bundles the account services.
type Directory interface {
	GroupCatalog
	UserLookup
	MembershipLookup
}

// MessageSource resolves interface messages in a fixed language.
type MessageSource interface {
	Exists(key string) bool
	// Plain returns the unparsed message text. Missing messages come back
	// as the host's missing-message marker.
	Plain(key string) string
}

// Output is the page being finalized.
type Output interface {
	AddModuleStyles(modules ...string)
	AddInlineStyle(css string)
}
