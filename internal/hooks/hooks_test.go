package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-groupbadges/pkg/config"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/title"
	"github.com/google/uuid"
)

type stubUsers struct {
	users map[string]*domain.User
	calls int
}

func (s *stubUsers) FindUserByName(_ context.Context, name string) (*domain.User, error) {
	s.calls++
	if u, ok := s.users[name]; ok {
		return u, nil
	}
	return nil, host.ErrNotFound
}

type stubMemberships struct {
	groups map[uuid.UUID][]string
	err    error
}

func (s *stubMemberships) UserGroups(_ context.Context, user *domain.User) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.groups[user.ID], nil
}

type countingTable struct {
	table *domain.BadgeTable
	calls int
}

func (c *countingTable) Groups(context.Context) *domain.BadgeTable {
	c.calls++
	return c.table
}

type recordingOutput struct {
	modules []string
	inline  []string
}

func (o *recordingOutput) AddModuleStyles(modules ...string) { o.modules = append(o.modules, modules...) }
func (o *recordingOutput) AddInlineStyle(css string)         { o.inline = append(o.inline, css) }

type stubStylesheet struct {
	css   string
	err   error
	calls int
}

func (s *stubStylesheet) CSS(context.Context) (string, error) {
	s.calls++
	return s.css, s.err
}

type fixture struct {
	hook        *LinkHook
	users       *stubUsers
	memberships *stubMemberships
	table       *countingTable
	alice       *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	alice := &domain.User{Name: "Alice"}
	alice.ID = uuid.New()
	ghost := &domain.User{Name: "Ghost"}

	table := domain.NewBadgeTable()
	table.Set("sysop", domain.Badge{Title: "Administrators", IconURL: "https://wiki.example/Sysop.svg"})
	table.Set("rollbacker", domain.Badge{Title: `Roll "back" <ers>`, IconURL: "data:image/png,r"})

	users := &stubUsers{users: map[string]*domain.User{"Alice": alice, "Ghost": ghost}}
	memberships := &stubMemberships{groups: map[uuid.UUID][]string{
		alice.ID: {"sysop", "autoconfirmed", "rollbacker"},
	}}
	counting := &countingTable{table: table}

	hook, err := NewLinkHook(LinkDependencies{
		Users:       users,
		Memberships: memberships,
		Table:       counting,
	})
	if err != nil {
		t.Fatalf("new link hook: %v", err)
	}
	return &fixture{hook: hook, users: users, memberships: memberships, table: counting, alice: alice}
}

func target(t *testing.T, text string) title.Title {
	t.Helper()
	parsed, err := title.DefaultNamespaces().Parse(text, title.NamespaceMain)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return parsed
}

func TestLinkPrependsBadgesInReverseHostOrder(t *testing.T) {
	f := newFixture(t)
	link := &domain.LinkRender{
		Target: target(t, "User:Alice"),
		Text:   domain.PlainText("User:Alice"),
	}

	f.hook.OnLinkRender(context.Background(), link)

	if !link.Text.Armored {
		t.Fatalf("expected armored text")
	}
	want := `<i class="group-badge role-rollbacker" title="Roll &#34;back&#34; &lt;ers&gt;"></i>` +
		`<i class="group-badge role-sysop" title="Administrators"></i>` +
		`Alice`
	if link.Text.Value != want {
		t.Fatalf("unexpected text:\n got %s\nwant %s", link.Text.Value, want)
	}
}

func TestLinkWithUserLinkClassUsesUserName(t *testing.T) {
	f := newFixture(t)
	link := &domain.LinkRender{
		Target:     target(t, "User:Alice"),
		Text:       domain.ArmoredHTML("<bdi>Alice</bdi>"),
		Attributes: map[string]string{"class": "mw-userlink extra"},
	}

	f.hook.OnLinkRender(context.Background(), link)

	if strings.Contains(link.Text.Value, "<bdi>") {
		t.Fatalf("host text must be replaced by the user name: %s", link.Text.Value)
	}
	if !strings.HasSuffix(link.Text.Value, "</i>Alice") {
		t.Fatalf("expected user name after badges: %s", link.Text.Value)
	}
	if strings.Count(link.Text.Value, "<i ") != 2 {
		t.Fatalf("expected two badges: %s", link.Text.Value)
	}
}

func TestLinkEscapesUserName(t *testing.T) {
	f := newFixture(t)
	obrien := &domain.User{Name: "O'Brien & Co"}
	obrien.ID = uuid.New()
	f.users.users[obrien.Name] = obrien
	f.memberships.groups[obrien.ID] = []string{"sysop"}

	link := &domain.LinkRender{
		Target: target(t, "User:O'Brien & Co"),
		Text:   domain.PlainText("User:O'Brien & Co"),
	}
	f.hook.OnLinkRender(context.Background(), link)

	want := `<i class="group-badge role-sysop" title="Administrators"></i>O&#39;Brien &amp; Co`
	if link.Text.Value != want {
		t.Fatalf("unexpected text:\n got %s\nwant %s", link.Text.Value, want)
	}
}

func TestLinkWithoutTextUsesUserName(t *testing.T) {
	f := newFixture(t)
	link := &domain.LinkRender{
		Target:     target(t, "User:Alice"),
		Attributes: map[string]string{"class": "mw-userlink"},
	}

	f.hook.OnLinkRender(context.Background(), link)

	if link.Text == nil || !strings.HasSuffix(link.Text.Value, "</i>Alice") {
		t.Fatalf("expected badges before user name, got %+v", link.Text)
	}
}

func TestLinkSkips(t *testing.T) {
	cases := []struct {
		name  string
		link  func(t *testing.T) *domain.LinkRender
		users int
	}{
		{
			name: "custom display text",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "User:Alice"), Text: domain.PlainText("SomeOtherText")}
			},
		},
		{
			name: "missing text without user link class",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "User:Alice")}
			},
		},
		{
			name: "partial class match",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{
					Target:     target(t, "User:Alice"),
					Text:       domain.PlainText("edit"),
					Attributes: map[string]string{"class": "mw-userlink-edit"},
				}
			},
		},
		{
			name: "subpage",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "User:Alice/subpage"), Text: domain.PlainText("User:Alice/subpage")}
			},
		},
		{
			name: "other namespace",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "Alice"), Text: domain.PlainText("Alice")}
			},
		},
		{
			name: "unknown user",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "User:NoSuchUser"), Text: domain.PlainText("User:NoSuchUser")}
			},
			users: 1,
		},
		{
			name: "zero id user",
			link: func(t *testing.T) *domain.LinkRender {
				return &domain.LinkRender{Target: target(t, "User:Ghost"), Text: domain.PlainText("User:Ghost")}
			},
			users: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			link := tc.link(t)
			before := link.Text
			var beforeValue domain.LinkText
			if before != nil {
				beforeValue = *before
			}

			f.hook.OnLinkRender(context.Background(), link)

			if link.Text != before {
				t.Fatalf("text must be left untouched")
			}
			if before != nil && *link.Text != beforeValue {
				t.Fatalf("text value changed to %+v", *link.Text)
			}
			if f.users.calls != tc.users {
				t.Fatalf("expected %d user lookups, got %d", tc.users, f.users.calls)
			}
			if f.table.calls != 0 {
				t.Fatalf("badge table must not be touched for skipped links")
			}
		})
	}
}

func TestLinkWithoutBadgesIsUntouched(t *testing.T) {
	f := newFixture(t)
	bob := &domain.User{Name: "Bob"}
	bob.ID = uuid.New()
	f.users.users["Bob"] = bob
	f.memberships.groups[bob.ID] = []string{"autoconfirmed"}

	text := domain.PlainText("User:Bob")
	link := &domain.LinkRender{Target: target(t, "User:Bob"), Text: text}
	f.hook.OnLinkRender(context.Background(), link)

	if link.Text != text || link.Text.Armored {
		t.Fatalf("expected untouched text, got %+v", link.Text)
	}
}

func TestLinkMembershipErrorSkips(t *testing.T) {
	f := newFixture(t)
	f.memberships.err = errors.New("db down")
	text := domain.PlainText("User:Alice")
	link := &domain.LinkRender{Target: target(t, "User:Alice"), Text: text}
	f.hook.OnLinkRender(context.Background(), link)
	if link.Text != text {
		t.Fatalf("expected untouched text")
	}
}

func TestLinkTableReadForEveryLinkUsesSameSource(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		link := &domain.LinkRender{Target: target(t, "User:Alice"), Text: domain.PlainText("User:Alice")}
		f.hook.OnLinkRender(context.Background(), link)
	}
	if f.table.calls != 3 {
		t.Fatalf("expected table source per link, got %d", f.table.calls)
	}
}

func TestNewLinkHookValidates(t *testing.T) {
	if _, err := NewLinkHook(LinkDependencies{}); !errors.Is(err, ErrUsersRequired) {
		t.Fatalf("expected ErrUsersRequired, got %v", err)
	}
	if _, err := NewLinkHook(LinkDependencies{Users: &stubUsers{}}); !errors.Is(err, ErrMembershipsRequired) {
		t.Fatalf("expected ErrMembershipsRequired, got %v", err)
	}
	if _, err := NewLinkHook(LinkDependencies{Users: &stubUsers{}, Memberships: &stubMemberships{}}); !errors.Is(err, ErrTableRequired) {
		t.Fatalf("expected ErrTableRequired, got %v", err)
	}
}

func TestPageHookModuleMode(t *testing.T) {
	table := domain.NewBadgeTable()
	table.Set("sysop", domain.Badge{IconURL: "https://wiki.example/Sysop.svg"})
	sheet := &stubStylesheet{css: "css"}
	hook, err := NewPageHook(PageDependencies{
		Table:      &countingTable{table: table},
		Styles:     sheet,
		Mode:       config.StyleModeModule,
		ModuleName: "ext.usergroupbadges.styles",
	})
	if err != nil {
		t.Fatalf("new page hook: %v", err)
	}
	out := &recordingOutput{}
	hook.OnBeforePageDisplay(context.Background(), out)

	if len(out.modules) != 1 || out.modules[0] != "ext.usergroupbadges.styles" {
		t.Fatalf("expected module registration, got %v", out.modules)
	}
	if len(out.inline) != 0 || sheet.calls != 0 {
		t.Fatalf("module mode must not render inline css")
	}
}

func TestPageHookInlineMode(t *testing.T) {
	table := domain.NewBadgeTable()
	table.Set("sysop", domain.Badge{IconURL: "https://wiki.example/Sysop.svg"})
	hook, err := NewPageHook(PageDependencies{
		Table:  &countingTable{table: table},
		Styles: &stubStylesheet{css: "i.group-badge{}"},
		Mode:   config.StyleModeInline,
	})
	if err != nil {
		t.Fatalf("new page hook: %v", err)
	}
	out := &recordingOutput{}
	hook.OnBeforePageDisplay(context.Background(), out)
	if len(out.inline) != 1 || out.inline[0] != "i.group-badge{}" {
		t.Fatalf("expected inline css, got %v", out.inline)
	}
	if len(out.modules) != 0 {
		t.Fatalf("inline mode must not register modules")
	}
}

func TestPageHookEmptyTableEmitsNothing(t *testing.T) {
	for _, mode := range []string{config.StyleModeModule, config.StyleModeInline} {
		sheet := &stubStylesheet{css: "should not appear"}
		hook, err := NewPageHook(PageDependencies{
			Table:      &countingTable{table: domain.NewBadgeTable()},
			Styles:     sheet,
			Mode:       mode,
			ModuleName: "ext.usergroupbadges.styles",
		})
		if err != nil {
			t.Fatalf("new page hook: %v", err)
		}
		out := &recordingOutput{}
		hook.OnBeforePageDisplay(context.Background(), out)
		if len(out.inline) != 0 || len(out.modules) != 0 {
			t.Fatalf("%s: expected no output, got %+v", mode, out)
		}
	}
}

func TestPageHookRenderErrorDegrades(t *testing.T) {
	table := domain.NewBadgeTable()
	table.Set("sysop", domain.Badge{IconURL: "x"})
	hook, err := NewPageHook(PageDependencies{
		Table:  &countingTable{table: table},
		Styles: &stubStylesheet{err: errors.New("boom")},
		Mode:   config.StyleModeInline,
	})
	if err != nil {
		t.Fatalf("new page hook: %v", err)
	}
	out := &recordingOutput{}
	hook.OnBeforePageDisplay(context.Background(), out)
	if len(out.inline) != 0 {
		t.Fatalf("expected no inline css on render error")
	}
}

func TestNewPageHookValidates(t *testing.T) {
	table := &countingTable{table: domain.NewBadgeTable()}
	if _, err := NewPageHook(PageDependencies{Styles: &stubStylesheet{}}); !errors.Is(err, ErrTableRequired) {
		t.Fatalf("expected ErrTableRequired, got %v", err)
	}
	if _, err := NewPageHook(PageDependencies{Table: table}); !errors.Is(err, ErrRendererRequired) {
		t.Fatalf("expected ErrRendererRequired, got %v", err)
	}
	_, err := NewPageHook(PageDependencies{Table: table, Styles: &stubStylesheet{}, Mode: config.StyleModeModule})
	if !errors.Is(err, ErrModuleNameRequired) {
		t.Fatalf("expected ErrModuleNameRequired, got %v", err)
	}
	if _, err := NewPageHook(PageDependencies{Table: table, Styles: &stubStylesheet{}, Mode: config.StyleModeInline}); err != nil {
		t.Fatalf("inline mode needs no module name: %v", err)
	}
}
