package bunrepo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/uptrace/bun"
)

// Models lists the tables backing the reference host stores.
func Models() []any {
	return []any{
		(*domain.User)(nil),
		(*domain.Group)(nil),
		(*domain.GroupMembership)(nil),
		(*domain.File)(nil),
	}
}

// CreateSchema creates missing tables. Real deployments should run
// migrations instead; this serves tests and the examples.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("bunrepo: create table for %T: %w", model, err)
		}
	}
	return nil
}
