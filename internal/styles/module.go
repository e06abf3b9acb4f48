package styles

import (
	"context"

	"github.com/goliatone/go-groupbadges/pkg/domain"
)

// MediaAll is the media key used for badge styles.
const MediaAll = "all"

// TableSource yields the badge table of the current request.
type TableSource interface {
	Groups(ctx context.Context) *domain.BadgeTable
}

// Module is a named style bundle the host loads by name. Its content is
// generated from the badge table.
type Module struct {
	name     string
	renderer *Renderer
	source   TableSource
}

// NewModule binds a renderer to a table source under name.
func NewModule(name string, renderer *Renderer, source TableSource) *Module {
	return &Module{name: name, renderer: renderer, source: source}
}

// Name returns the module name registered with the host.
func (m *Module) Name() string {
	return m.name
}

// CSS returns the generated stylesheet, empty when no group has a badge.
func (m *Module) CSS(ctx context.Context) (string, error) {
	return m.renderer.Render(ctx, m.source.Groups(ctx))
}

// Styles returns CSS keyed by media type.
func (m *Module) Styles(ctx context.Context) (map[string]string, error) {
	css, err := m.CSS(ctx)
	if err != nil {
		return nil, err
	}
	if css == "" {
		return map[string]string{}, nil
	}
	return map[string]string{MediaAll: css}, nil
}

// Version changes whenever the generated CSS changes.
func (m *Module) Version(ctx context.Context) (string, error) {
	css, err := m.CSS(ctx)
	if err != nil {
		return "", err
	}
	return Version(css), nil
}
