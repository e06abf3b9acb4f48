package hooks

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/title"
)

var (
	ErrUsersRequired       = errors.New("hooks: user lookup is required")
	ErrMembershipsRequired = errors.New("hooks: membership lookup is required")
	ErrTableRequired       = errors.New("hooks: badge table source is required")
)

// TableSource yields the badge table of the current request.
type TableSource interface {
	Groups(ctx context.Context) *domain.BadgeTable
}

// Markup describes the icon element prepended to user links.
type Markup struct {
	Element       string
	BaseClass     string
	ClassPrefix   string
	UserLinkClass string
}

// DefaultMarkup matches the stylesheet defaults.
func DefaultMarkup() Markup {
	return Markup{
		Element:       "i",
		BaseClass:     "group-badge",
		ClassPrefix:   "role-",
		UserLinkClass: "mw-userlink",
	}
}

// LinkDependencies wire the link hook.
type LinkDependencies struct {
	Users       host.UserLookup
	Memberships host.MembershipLookup
	Table       TableSource
	Markup      Markup
	Logger      logger.Logger
}

// LinkHook prepends group badges to links pointing at user pages.
type LinkHook struct {
	users       host.UserLookup
	memberships host.MembershipLookup
	table       TableSource
	markup      Markup
	logger      logger.Logger
}

// NewLinkHook validates dependencies.
func NewLinkHook(deps LinkDependencies) (*LinkHook, error) {
	if deps.Users == nil {
		return nil, ErrUsersRequired
	}
	if deps.Memberships == nil {
		return nil, ErrMembershipsRequired
	}
	if deps.Table == nil {
		return nil, ErrTableRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	markup := deps.Markup
	defaults := DefaultMarkup()
	if markup.Element == "" {
		markup.Element = defaults.Element
	}
	if markup.BaseClass == "" {
		markup.BaseClass = defaults.BaseClass
	}
	if markup.ClassPrefix == "" {
		markup.ClassPrefix = defaults.ClassPrefix
	}
	if markup.UserLinkClass == "" {
		markup.UserLinkClass = defaults.UserLinkClass
	}
	return &LinkHook{
		users:       deps.Users,
		memberships: deps.Memberships,
		table:       deps.Table,
		markup:      markup,
		logger:      deps.Logger,
	}, nil
}

// OnLinkRender runs before the host renders link. It may replace
// link.Text; any condition that rules a link out leaves it untouched.
func (h *LinkHook) OnLinkRender(ctx context.Context, link *domain.LinkRender) {
	if link == nil || !link.Target.InNamespace(title.NamespaceUser) {
		return
	}
	if link.Target.IsSubpage() {
		return
	}
	// [[User:Alice|Bob]] must not carry Alice's badges, and UI links such
	// as "edit" or "talk" point at the user page with other text.
	if h.hasCustomText(link) {
		return
	}

	name := link.Target.RootText()
	user, err := h.users.FindUserByName(ctx, name)
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			h.logger.Warn("hooks: user lookup failed", logger.F("user", name), logger.F("error", err))
		}
		return
	}
	if !user.Exists() {
		return
	}

	groups, err := h.memberships.UserGroups(ctx, user)
	if err != nil {
		h.logger.Warn("hooks: membership lookup failed", logger.F("user", name), logger.F("error", err))
		return
	}

	table := h.table.Groups(ctx)
	accumulated := baseHTML(link)
	updated := false
	for _, group := range groups {
		badge, ok := table.Get(group)
		if !ok {
			continue
		}
		accumulated = h.icon(group, badge) + accumulated
		updated = true
	}

	if updated {
		link.Text = domain.ArmoredHTML(accumulated)
	}
}

func (h *LinkHook) hasCustomText(link *domain.LinkRender) bool {
	display, ok := link.Text.Display()
	if ok && display == link.Target.FullText() {
		return false
	}
	return !hasClass(link.Attributes, h.markup.UserLinkClass)
}

func (h *LinkHook) icon(group string, badge domain.Badge) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(h.markup.Element)
	b.WriteString(` class="`)
	b.WriteString(html.EscapeString(h.markup.BaseClass + " " + h.markup.ClassPrefix + group))
	b.WriteString(`" title="`)
	b.WriteString(html.EscapeString(badge.Title))
	b.WriteString(`"></`)
	b.WriteString(h.markup.Element)
	b.WriteString(">")
	return b.String()
}

// baseHTML is the escaped user name the badges are prepended to. The
// namespace prefix and any host-supplied text are replaced.
func baseHTML(link *domain.LinkRender) string {
	return html.EscapeString(link.Target.RootText())
}

func hasClass(attrs map[string]string, class string) bool {
	if attrs == nil || class == "" {
		return false
	}
	for _, c := range strings.Fields(attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}
