package domain

import (
	"html"

	"github.com/goliatone/go-groupbadges/pkg/title"
)

// Badge is the resolved presentation of one group.
type Badge struct {
	Title   string
	IconURL string
}

// BadgeTable maps groups to badges. Groups without a resolvable icon are
// absent. Order follows the host group enumeration.
type BadgeTable struct {
	order  []string
	badges map[string]Badge
}

// NewBadgeTable returns an empty table.
func NewBadgeTable() *BadgeTable {
	return &BadgeTable{badges: make(map[string]Badge)}
}

// Set adds or replaces a group badge, keeping first insertion order.
func (t *BadgeTable) Set(group string, badge Badge) {
	if _, ok := t.badges[group]; !ok {
		t.order = append(t.order, group)
	}
	t.badges[group] = badge
}

// Get returns the badge for group.
func (t *BadgeTable) Get(group string) (Badge, bool) {
	if t == nil {
		return Badge{}, false
	}
	b, ok := t.badges[group]
	return b, ok
}

// Groups returns group names in insertion order.
func (t *BadgeTable) Groups() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of groups with a badge.
func (t *BadgeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// IconKind tells where an icon URL came from.
type IconKind int

const (
	IconNone IconKind = iota
	IconDataURI
	IconFile
)

func (k IconKind) String() string {
	switch k {
	case IconDataURI:
		return "data-uri"
	case IconFile:
		return "file"
	default:
		return "none"
	}
}

// IconSource is the outcome of resolving a badge icon message.
type IconSource struct {
	Kind IconKind
	URL  string
}

// Found reports whether an icon was resolved.
func (s IconSource) Found() bool {
	return s.Kind != IconNone
}

// LinkText is the display text of a rendered link. Armored text is HTML
// that the renderer must output verbatim.
type LinkText struct {
	Value   string
	Armored bool
}

// PlainText builds non-HTML link text.
func PlainText(s string) *LinkText {
	return &LinkText{Value: s}
}

// ArmoredHTML builds link text carrying raw HTML.
func ArmoredHTML(s string) *LinkText {
	return &LinkText{Value: s, Armored: true}
}

// HTML returns the text as HTML, escaping plain text.
func (t *LinkText) HTML() string {
	if t == nil {
		return ""
	}
	if t.Armored {
		return t.Value
	}
	return html.EscapeString(t.Value)
}

// Display returns the raw value used for display comparisons.
func (t *LinkText) Display() (string, bool) {
	if t == nil {
		return "", false
	}
	return t.Value, true
}

// LinkRender carries the state of one link as the host renders it. Hooks
// may replace Text; Target and Attributes are read only.
type LinkRender struct {
	Target     title.Title
	Text       *LinkText
	Attributes map[string]string
}
