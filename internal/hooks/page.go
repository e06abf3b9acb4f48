package hooks

import (
	"context"
	"errors"

	"github.com/goliatone/go-groupbadges/pkg/config"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
)

var (
	// ErrRendererRequired is returned when the page hook has no CSS renderer.
	ErrRendererRequired   = errors.New("hooks: stylesheet renderer is required")
	// ErrModuleNameRequired is returned in module mode without a module name.
	ErrModuleNameRequired = errors.New("hooks: module name is required in module mode")
)

// PageDependencies wire the page finalize hook.
type PageDependencies struct {
	Table      TableSource
	Styles     Stylesheet
	Mode       string
	ModuleName string
	Logger     logger.Logger
}

// Stylesheet renders CSS for the current table.
type Stylesheet interface {
	CSS(ctx context.Context) (string, error)
}

// PageHook attaches badge CSS when the page is finalized.
type PageHook struct {
	table      TableSource
	styles     Stylesheet
	mode       string
	moduleName string
	logger     logger.Logger
}

// NewPageHook validates dependencies.
func NewPageHook(deps PageDependencies) (*PageHook, error) {
	if deps.Table == nil {
		return nil, ErrTableRequired
	}
	if deps.Styles == nil {
		return nil, ErrRendererRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	mode := deps.Mode
	if mode == "" {
		mode = config.StyleModeModule
	}
	if mode == config.StyleModeModule && deps.ModuleName == "" {
		return nil, ErrModuleNameRequired
	}
	return &PageHook{
		table:      deps.Table,
		styles:     deps.Styles,
		mode:       mode,
		moduleName: deps.ModuleName,
		logger:     deps.Logger,
	}, nil
}

// OnBeforePageDisplay adds the badge styles to out. Nothing is added when
// no group has a badge.
func (h *PageHook) OnBeforePageDisplay(ctx context.Context, out host.Output) {
	if out == nil {
		return
	}
	if h.table.Groups(ctx).Len() == 0 {
		return
	}

	if h.mode == config.StyleModeModule {
		out.AddModuleStyles(h.moduleName)
		return
	}

	css, err := h.styles.CSS(ctx)
	if err != nil {
		h.logger.Warn("hooks: render badge styles failed", logger.F("error", err))
		return
	}
	if css == "" {
		return
	}
	out.AddInlineStyle(css)
}
