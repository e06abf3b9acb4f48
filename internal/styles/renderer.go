package styles

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/cache"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	gotemplate "github.com/goliatone/go-template"
)

// ErrRendererConfig wraps go-template setup failures.
var ErrRendererConfig = errors.New("styles: invalid renderer configuration")

const cacheKeyPrefix = "groupbadges:styles:"

// BaseDeclarations size and align every badge icon.
const BaseDeclarations = "display: inline-block; width: 1em; height: 1em; " +
	"margin-right: 0.2em; vertical-align: text-bottom; " +
	"background-repeat: no-repeat; background-position: center; background-size: contain;"

const stylesheetTemplate = `{{ selector|safe }}{ {{ base|safe }} }
{% for rule in rules %}{{ selector|safe }}.{{ rule.class|safe }}{ background-image: url("{{ rule.url|safe }}") }
{% endfor %}`

// Dependencies configure the stylesheet renderer.
type Dependencies struct {
	Cache       cache.Cache
	Logger      logger.Logger
	CacheTTL    time.Duration
	Element     string
	BaseClass   string
	ClassPrefix string
	// Base overrides BaseDeclarations.
	Base string
}

// Renderer turns a badge table into CSS.
type Renderer struct {
	engine      *gotemplate.Engine
	renderMu    sync.Mutex
	cache       cache.Cache
	logger      logger.Logger
	ttl         time.Duration
	selector    string
	classPrefix string
	base        string
}

// New builds the renderer around a go-template engine.
func New(deps Dependencies) (*Renderer, error) {
	if deps.Cache == nil {
		deps.Cache = &cache.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Element == "" {
		deps.Element = "i"
	}
	if deps.BaseClass == "" {
		deps.BaseClass = "group-badge"
	}
	if deps.ClassPrefix == "" {
		deps.ClassPrefix = "role-"
	}
	if deps.Base == "" {
		deps.Base = BaseDeclarations
	}

	engine, err := gotemplate.NewRenderer(gotemplate.WithBaseDir("."))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererConfig, err)
	}

	return &Renderer{
		engine:      engine,
		cache:       deps.Cache,
		logger:      deps.Logger,
		ttl:         deps.CacheTTL,
		selector:    deps.Element + "." + cssIdent(deps.BaseClass),
		classPrefix: deps.ClassPrefix,
		base:        deps.Base,
	}, nil
}

// Rule is one group's CSS binding.
type Rule struct {
	Group    string
	Class    string
	Selector string
	URL      string
}

// Rules lists the per-group rules of table in table order.
func (r *Renderer) Rules(table *domain.BadgeTable) []Rule {
	groups := table.Groups()
	rules := make([]Rule, 0, len(groups))
	for _, group := range groups {
		badge, _ := table.Get(group)
		class := cssIdent(r.classPrefix + group)
		rules = append(rules, Rule{
			Group:    group,
			Class:    class,
			Selector: r.selector + "." + class,
			URL:      cssString(badge.IconURL),
		})
	}
	return rules
}

// Render returns the stylesheet for table. An empty table yields an empty
// string: no base rule without at least one group rule.
func (r *Renderer) Render(ctx context.Context, table *domain.BadgeTable) (string, error) {
	if table.Len() == 0 {
		return "", nil
	}
	rules := r.Rules(table)
	key := cacheKeyPrefix + r.fingerprint(rules)

	if cached, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		if css, isString := cached.(string); isString {
			return css, nil
		}
	} else if err != nil {
		r.logger.Warn("styles: cache get failed", logger.F("error", err))
	}

	data := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		data = append(data, map[string]any{"class": rule.Class, "url": rule.URL})
	}

	r.renderMu.Lock()
	css, err := r.engine.RenderString(stylesheetTemplate, map[string]any{
		"selector": r.selector,
		"base":     r.base,
		"rules":    data,
	})
	r.renderMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("styles: render: %w", err)
	}

	if err := r.cache.Set(ctx, key, css, r.ttl); err != nil {
		r.logger.Warn("styles: cache set failed", logger.F("error", err))
	}
	return css, nil
}

func (r *Renderer) fingerprint(rules []Rule) string {
	h := sha256.New()
	h.Write([]byte(r.selector))
	h.Write([]byte{0})
	h.Write([]byte(r.base))
	for _, rule := range rules {
		h.Write([]byte{0})
		h.Write([]byte(rule.Class))
		h.Write([]byte{0})
		h.Write([]byte(rule.URL))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Version hashes rendered CSS so hosts can bust caches when it changes.
func Version(css string) string {
	if css == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(css))
	return hex.EncodeToString(sum[:8])
}

// cssString escapes a value for use inside a double quoted CSS string.
func cssString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\a `)
		case '\r':
			b.WriteString(`\d `)
		case '<':
			b.WriteString(`\3c `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cssIdent backslash-escapes characters that may not appear in a class
// selector.
func cssIdent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, `\%x `, r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
