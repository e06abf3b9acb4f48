// Package badges is the entry point for hosts: it assembles the badge
// resolver, link and page hooks, the style module, and directory commands.
package badges

import (
	"context"

	"github.com/goliatone/go-groupbadges/internal/di"
	"github.com/goliatone/go-groupbadges/internal/styles"
	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/commands"
	"github.com/goliatone/go-groupbadges/pkg/config"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/cache"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/messages"
	"github.com/goliatone/go-groupbadges/pkg/storage"
	"github.com/goliatone/go-groupbadges/pkg/title"
	i18n "github.com/goliatone/go-i18n"
)

// ModuleOptions configure the badge module facade.
type ModuleOptions struct {
	Config  config.Config
	Storage storage.Providers
	Logger  logger.Logger
	Cache   cache.Cache
	// Messages is the raw message lookup, e.g. an i18n.NewStaticStore.
	// When nil, Translator is used instead.
	Messages   messages.Lookup
	Translator i18n.Translator
	Fallbacks  i18n.FallbackResolver
	// Directory and Files override the Storage backed host services.
	Directory host.Directory
	Files     host.FileRepository
	Activity  activity.Hooks
}

// Module bundles the container and hands out per-request hook sets.
type Module struct {
	container *di.Container
}

// NewModule assembles host services, resolver, renderer, and commands.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:     opts.Config,
		Storage:    opts.Storage,
		Logger:     opts.Logger,
		Cache:      opts.Cache,
		Messages:   opts.Messages,
		Translator: opts.Translator,
		Fallbacks:  opts.Fallbacks,
		Directory:  opts.Directory,
		Files:      opts.Files,
		Activity:   opts.Activity,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// NewRequest returns the hooks for one page render. The badge table is
// computed at most once per request; drop the Request with the render.
func (m *Module) NewRequest() *Request {
	if m == nil || m.container == nil {
		return nil
	}
	req, err := newRequest(m.container)
	if err != nil {
		// Container construction already validated every dependency.
		m.container.Logger.Error("badges: request setup failed", logger.F("error", err))
		return nil
	}
	return req
}

// StyleModule returns the module served when the host loads styles by
// name, outside any page render. Each CSS call resolves a fresh table.
func (m *Module) StyleModule() *styles.Module {
	if m == nil || m.container == nil {
		return nil
	}
	return styles.NewModule(m.container.Config.Styles.ModuleName, m.container.Styles, freshTable{m.container})
}

// Commands returns the go-command registry.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// Storage returns the reference stores backing the directory.
func (m *Module) Storage() storage.Providers {
	if m == nil || m.container == nil {
		return storage.Providers{}
	}
	return m.container.Storage
}

// Namespaces returns the namespace table used to parse titles.
func (m *Module) Namespaces() *title.Namespaces {
	if m == nil || m.container == nil {
		return title.DefaultNamespaces()
	}
	return m.container.Namespaces
}

// Messages returns the message source pinned to the content language.
func (m *Module) Messages() *messages.Source {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Messages
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Container returns the internal DI container.
// This is exposed for advanced use cases like direct storage access.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}

type freshTable struct {
	container *di.Container
}

func (f freshTable) Groups(ctx context.Context) *domain.BadgeTable {
	return f.container.Resolver.Build(ctx)
}

// ErrMessagesRequired is returned when neither Messages nor Translator is set.
var ErrMessagesRequired = di.ErrMessagesRequired
