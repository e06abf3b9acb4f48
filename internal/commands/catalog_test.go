package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	bunrepo "github.com/goliatone/go-groupbadges/internal/storage/bun"
	"github.com/goliatone/go-groupbadges/internal/storage/memory"
	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/goliatone/go-groupbadges/pkg/title"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type recordingHook struct {
	events []activity.Event
}

func (r *recordingHook) Notify(_ context.Context, evt activity.Event) {
	r.events = append(r.events, evt)
}

type fixture struct {
	catalog     *Catalog
	users       *memory.UserRepository
	groups      *memory.GroupRepository
	memberships *memory.MembershipRepository
	files       *memory.FileRepository
	hook        *recordingHook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ns := title.DefaultNamespaces()
	ns.Alias(title.NamespaceFile, "Datei")
	f := &fixture{
		users:       memory.NewUserRepository(),
		groups:      memory.NewGroupRepository(),
		memberships: memory.NewMembershipRepository(),
		files:       memory.NewFileRepository(),
		hook:        &recordingHook{},
	}
	cat, err := NewCatalog(Dependencies{
		Users:       f.users,
		Groups:      f.groups,
		Memberships: f.memberships,
		Files:       f.files,
		Namespaces:  ns,
		Activity:    activity.Hooks{f.hook},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	f.catalog = cat
	return f
}

func TestCatalogCommands(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"sysop", "rollbacker"} {
		if err := f.catalog.DefineGroup.Execute(ctx, DefineGroup{Name: name}); err != nil {
			t.Fatalf("define group %s: %v", name, err)
		}
	}
	if err := f.catalog.DefineGroup.Execute(ctx, DefineGroup{Name: "sysop"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate group error, got %v", err)
	}
	groups, _ := f.groups.ListOrdered(ctx)
	if len(groups) != 2 || groups[0].Name != "sysop" || groups[1].Position != 1 {
		t.Fatalf("unexpected groups: %+v", groups)
	}

	if err := f.catalog.CreateUser.Execute(ctx, CreateUser{Name: "alice_smith"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	user, err := f.users.GetByName(ctx, "Alice smith")
	if err != nil {
		t.Fatalf("user name should be normalized: %v", err)
	}

	for _, group := range []string{"sysop", "rollbacker", "sysop"} {
		if err := f.catalog.AssignGroup.Execute(ctx, AssignGroup{User: "Alice smith", Group: group}); err != nil {
			t.Fatalf("assign %s: %v", group, err)
		}
	}
	memberships, _ := f.memberships.ListByUser(ctx, user.ID)
	if len(memberships) != 2 || memberships[0].Group != "sysop" || memberships[1].Group != "rollbacker" {
		t.Fatalf("unexpected memberships: %+v", memberships)
	}

	if err := f.catalog.RevokeGroup.Execute(ctx, RevokeGroup{User: "Alice smith", Group: "sysop"}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := f.catalog.RevokeGroup.Execute(ctx, RevokeGroup{User: "Alice smith", Group: "sysop"}); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}
	memberships, _ = f.memberships.ListByUser(ctx, user.ID)
	if len(memberships) != 1 || memberships[0].Group != "rollbacker" {
		t.Fatalf("unexpected memberships after revoke: %+v", memberships)
	}

	wantVerbs := []string{
		activity.VerbGroupDefined,
		activity.VerbGroupDefined,
		activity.VerbUserCreated,
		activity.VerbGroupAssigned,
		activity.VerbGroupAssigned,
		activity.VerbGroupRevoked,
	}
	if len(f.hook.events) != len(wantVerbs) {
		t.Fatalf("expected %d events, got %d", len(wantVerbs), len(f.hook.events))
	}
	for i, verb := range wantVerbs {
		if f.hook.events[i].Verb != verb {
			t.Fatalf("event %d: expected %s, got %s", i, verb, f.hook.events[i].Verb)
		}
		if f.hook.events[i].Channel != activity.DefaultActivityChan {
			t.Fatalf("event %d: missing default channel", i)
		}
	}
}

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	sqldb, err := sql.Open(sqliteshim.DriverName(), fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	if err := bunrepo.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestCatalogMembershipCommandsBun(t *testing.T) {
	db := setupSQLiteDB(t)
	memberships := bunrepo.NewMembershipRepository(db)
	cat, err := NewCatalog(Dependencies{
		Users:       bunrepo.NewUserRepository(db),
		Groups:      bunrepo.NewGroupRepository(db),
		Memberships: memberships,
		Files:       bunrepo.NewFileRepository(db),
		Transaction: bunrepo.NewTxManager(db),
		Namespaces:  title.DefaultNamespaces(),
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	// one connection: queries issued outside the open transaction would wait forever
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, name := range []string{"sysop", "rollbacker"} {
		if err := cat.DefineGroup.Execute(ctx, DefineGroup{Name: name}); err != nil {
			t.Fatalf("define group %s: %v", name, err)
		}
	}
	if err := cat.CreateUser.Execute(ctx, CreateUser{Name: "Alice"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, group := range []string{"sysop", "rollbacker", "sysop"} {
		if err := cat.AssignGroup.Execute(ctx, AssignGroup{User: "Alice", Group: group}); err != nil {
			t.Fatalf("assign %s: %v", group, err)
		}
	}
	if err := cat.AssignGroup.Execute(ctx, AssignGroup{User: "Alice", Group: "bureaucrat"}); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}

	user, err := bunrepo.NewUserRepository(db).GetByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	items, err := memberships.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(items) != 2 || items[0].Group != "sysop" || items[1].Group != "rollbacker" || items[1].Position != 1 {
		t.Fatalf("unexpected memberships: %+v", items)
	}

	if err := cat.RevokeGroup.Execute(ctx, RevokeGroup{User: "Alice", Group: "sysop"}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := cat.RevokeGroup.Execute(ctx, RevokeGroup{User: "Alice", Group: "sysop"}); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}
	items, err = memberships.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(items) != 1 || items[0].Group != "rollbacker" {
		t.Fatalf("unexpected memberships after revoke: %+v", items)
	}

	if err := cat.AssignGroup.Execute(ctx, AssignGroup{User: "Alice", Group: "sysop"}); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	items, _ = memberships.ListByUser(ctx, user.ID)
	if len(items) != 2 || items[1].Group != "sysop" {
		t.Fatalf("expected sysop reassigned after rollbacker: %+v", items)
	}
}

func TestAssignUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := f.catalog.AssignGroup.Execute(ctx, AssignGroup{User: "Nobody", Group: "sysop"}); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
	if err := f.catalog.CreateUser.Execute(ctx, CreateUser{Name: "Bob"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := f.catalog.AssignGroup.Execute(ctx, AssignGroup{User: "Bob", Group: "sysop"}); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestRegisterFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.catalog.RegisterFile.Execute(ctx, RegisterFile{Name: "Datei:sysop_badge.svg", URL: "https://wiki.example/Sysop.svg", Local: true}); err != nil {
		t.Fatalf("register file: %v", err)
	}
	file, err := f.files.GetByName(ctx, "Sysop badge.svg")
	if err != nil {
		t.Fatalf("file name should be normalized: %v", err)
	}
	if file.Available() {
		t.Fatalf("local file without stored content must not be available")
	}

	err = f.catalog.RegisterFile.Execute(ctx, RegisterFile{Name: "Sysop badge.svg", URL: "https://wiki.example/Sysop.svg", Local: true, Exists: true})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate file error, got %v", err)
	}
	err = f.catalog.RegisterFile.Execute(ctx, RegisterFile{Name: "File:Sysop badge.svg", URL: "https://wiki.example/Sysop.svg", Local: true, Exists: true, AllowUpdate: true})
	if err != nil {
		t.Fatalf("update file: %v", err)
	}
	file, _ = f.files.GetByName(ctx, "Sysop badge.svg")
	if !file.Available() {
		t.Fatalf("expected updated file to be available")
	}

	if err := f.catalog.RegisterFile.Execute(ctx, RegisterFile{Name: "User:Alice", URL: "x"}); err == nil {
		t.Fatalf("expected non-file title to be rejected")
	}
}

func TestNewCatalogRequiresRepositories(t *testing.T) {
	if _, err := NewCatalog(Dependencies{}); err == nil {
		t.Fatalf("expected error for missing repositories")
	}
}
