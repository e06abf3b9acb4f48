package storage

import (
	"context"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
)

// Directory adapts Providers to the host service interfaces.
type Directory struct {
	providers Providers
}

var (
	_ host.Directory      = (*Directory)(nil)
	_ host.FileRepository = (*Directory)(nil)
)

// Directory returns a host adapter over the providers.
func (p Providers) Directory() *Directory {
	return &Directory{providers: p}
}

func (d *Directory) ListAllGroups(ctx context.Context) ([]string, error) {
	defer d.record("groups.list", time.Now())
	groups, err := d.providers.Groups.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names, nil
}

func (d *Directory) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	defer d.record("users.find", time.Now())
	return d.providers.Users.GetByName(ctx, name)
}

func (d *Directory) UserGroups(ctx context.Context, user *domain.User) ([]string, error) {
	if !user.Exists() {
		return nil, nil
	}
	defer d.record("memberships.list", time.Now())
	memberships, err := d.providers.Memberships.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	groups := make([]string, 0, len(memberships))
	for _, m := range memberships {
		groups = append(groups, m.Group)
	}
	return groups, nil
}

func (d *Directory) FindFile(ctx context.Context, name string) (*domain.File, error) {
	defer d.record("files.find", time.Now())
	return d.providers.Files.GetByName(ctx, name)
}

func (d *Directory) record(operation string, started time.Time) {
	if d.providers.Metrics == nil {
		return
	}
	d.providers.Metrics.Record(operation, map[string]string{
		"duration": time.Since(started).String(),
	})
}
