// Package title parses wiki page titles the way the host renderer does:
// namespace prefixes (canonical, aliases, localized names), whitespace and
// underscore normalization, first-letter capitalization, and subpages.
package title

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Namespace identifies a page namespace.
type Namespace int

const (
	NamespaceMain Namespace = 0
	NamespaceUser Namespace = 2
	NamespaceFile Namespace = 6
)

var (
	// ErrEmptyTitle is returned when nothing remains after normalization.
	ErrEmptyTitle = errors.New("title: empty title")
	// ErrIllegalTitle is returned when the text contains characters that are
	// never valid in a page title.
	ErrIllegalTitle = errors.New("title: illegal characters")
)

const illegalChars = "<>[]{}|"

// Namespaces maps namespace names to ids. Lookups are case-insensitive.
type Namespaces struct {
	byName    map[string]Namespace
	canonical map[Namespace]string
}

// DefaultNamespaces returns the canonical User and File namespaces plus the
// legacy Image alias for File.
func DefaultNamespaces() *Namespaces {
	ns := &Namespaces{
		byName:    make(map[string]Namespace),
		canonical: make(map[Namespace]string),
	}
	ns.Register(NamespaceUser, "User")
	ns.Register(NamespaceFile, "File")
	ns.Alias(NamespaceFile, "Image")
	return ns
}

// Register sets the canonical name of a namespace.
func (n *Namespaces) Register(id Namespace, name string) {
	name = normalizeSpaces(name)
	if name == "" {
		return
	}
	n.canonical[id] = name
	n.byName[n.fold(name)] = id
}

// Alias adds an alternate (usually localized) name for a namespace.
func (n *Namespaces) Alias(id Namespace, names ...string) {
	for _, name := range names {
		name = normalizeSpaces(name)
		if name == "" {
			continue
		}
		n.byName[n.fold(name)] = id
	}
}

// Lookup resolves a namespace name or alias.
func (n *Namespaces) Lookup(name string) (Namespace, bool) {
	id, ok := n.byName[n.fold(normalizeSpaces(name))]
	return id, ok
}

// Name returns the canonical name of a namespace, empty for Main.
func (n *Namespaces) Name(id Namespace) string {
	return n.canonical[id]
}

// Casers carry state, so each lookup gets its own.
func (n *Namespaces) fold(s string) string {
	return cases.Fold().String(s)
}

// Title is a parsed page title.
type Title struct {
	Namespace Namespace
	// Prefix is the canonical namespace name, empty for Main.
	Prefix string
	// Text is the normalized title text without the namespace prefix.
	Text string
}

// Parse normalizes text into a Title. A recognized namespace prefix wins
// over defaultNS.
func (n *Namespaces) Parse(text string, defaultNS Namespace) (Title, error) {
	if idx := strings.IndexByte(text, '#'); idx >= 0 {
		text = text[:idx]
	}
	text = normalizeSpaces(text)
	text = strings.TrimPrefix(text, ":")
	text = strings.TrimSpace(text)

	t := Title{Namespace: defaultNS, Prefix: n.Name(defaultNS)}
	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		if id, known := n.Lookup(prefix); known {
			t.Namespace = id
			t.Prefix = n.Name(id)
			text = strings.TrimSpace(rest)
		}
	}

	if text == "" {
		return Title{}, ErrEmptyTitle
	}
	if strings.ContainsAny(text, illegalChars) {
		return Title{}, ErrIllegalTitle
	}
	t.Text = Capitalize(text)
	return t, nil
}

// FullText returns the title with its namespace prefix, e.g. "User:Alice".
func (t Title) FullText() string {
	if t.Prefix == "" {
		return t.Text
	}
	return t.Prefix + ":" + t.Text
}

// InNamespace reports whether the title lives in ns.
func (t Title) InNamespace(ns Namespace) bool {
	return t.Namespace == ns
}

// IsSubpage reports whether the title is below another page. Subpages are
// only meaningful outside the Main namespace.
func (t Title) IsSubpage() bool {
	if t.Namespace == NamespaceMain {
		return false
	}
	root, _, ok := strings.Cut(t.Text, "/")
	return ok && root != ""
}

// RootText returns the text before the first subpage separator.
func (t Title) RootText() string {
	if !t.IsSubpage() {
		return t.Text
	}
	root, _, _ := strings.Cut(t.Text, "/")
	return root
}

// Normalize applies title text normalization without namespace handling.
func Normalize(text string) string {
	return Capitalize(normalizeSpaces(text))
}

// Capitalize upper-cases the first rune.
func Capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func normalizeSpaces(text string) string {
	text = strings.ReplaceAll(text, "_", " ")
	return strings.Join(strings.Fields(text), " ")
}
