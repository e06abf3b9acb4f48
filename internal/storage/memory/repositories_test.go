package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
)

func TestUserRepositoryMemory(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &domain.User{Name: "Alice"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !user.Exists() {
		t.Fatalf("expected id to be assigned")
	}
	if err := repo.Create(ctx, &domain.User{Name: "Alice"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := repo.GetByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, got.ID)
	}
	if _, err := repo.GetByName(ctx, "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("names are case sensitive after normalization, got %v", err)
	}

	if err := repo.SoftDelete(ctx, user.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.GetByName(ctx, "Alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected deleted user to be hidden, got %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Name: "Alice"}); err != nil {
		t.Fatalf("name should be reusable after delete: %v", err)
	}
}

func TestGroupRepositoryOrdering(t *testing.T) {
	repo := NewGroupRepository()
	ctx := context.Background()

	for _, g := range []domain.Group{
		{Name: "sysop", Position: 2},
		{Name: "bureaucrat", Position: 1},
		{Name: "rollbacker", Position: 2},
	} {
		g := g
		if err := repo.Create(ctx, &g); err != nil {
			t.Fatalf("create %s: %v", g.Name, err)
		}
	}

	groups, err := repo.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("list ordered: %v", err)
	}
	want := []string{"bureaucrat", "sysop", "rollbacker"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, name := range want {
		if groups[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, groups[i].Name)
		}
	}

	result, err := repo.List(ctx, store.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 3 || len(result.Items) != 2 {
		t.Fatalf("unexpected page: total=%d items=%d", result.Total, len(result.Items))
	}
}

func TestMembershipRepositoryMemory(t *testing.T) {
	users := NewUserRepository()
	repo := NewMembershipRepository()
	ctx := context.Background()

	alice := &domain.User{Name: "Alice"}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i, group := range []string{"sysop", "rollbacker"} {
		if err := repo.Create(ctx, &domain.GroupMembership{UserID: alice.ID, Group: group, Position: i}); err != nil {
			t.Fatalf("create membership: %v", err)
		}
	}
	if err := repo.Create(ctx, &domain.GroupMembership{UserID: alice.ID, Group: "sysop"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	items, err := repo.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(items) != 2 || items[0].Group != "sysop" || items[1].Group != "rollbacker" {
		t.Fatalf("unexpected memberships: %+v", items)
	}

	m, err := repo.GetByUserAndGroup(ctx, alice.ID, "sysop")
	if err != nil {
		t.Fatalf("get by user and group: %v", err)
	}
	if err := repo.SoftDelete(ctx, m.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	items, _ = repo.ListByUser(ctx, alice.ID)
	if len(items) != 1 || items[0].Group != "rollbacker" {
		t.Fatalf("expected revoked membership to be hidden: %+v", items)
	}
}

func TestFileRepositoryMemory(t *testing.T) {
	repo := NewFileRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.File{Name: "Sysop.svg"}); err == nil {
		t.Fatalf("expected url to be required")
	}
	file := &domain.File{Name: "Sysop.svg", URL: "https://wiki.example/images/Sysop.svg", Local: true, Exists: true}
	if err := repo.Create(ctx, file); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByName(ctx, "Sysop.svg")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if !got.Available() || got.URL != file.URL {
		t.Fatalf("unexpected file: %+v", got)
	}
}
