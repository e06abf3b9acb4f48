package di

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-groupbadges/internal/resolver"
	"github.com/goliatone/go-groupbadges/internal/styles"
	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/commands"
	"github.com/goliatone/go-groupbadges/pkg/config"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/cache"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/messages"
	"github.com/goliatone/go-groupbadges/pkg/storage"
	"github.com/goliatone/go-groupbadges/pkg/title"
	i18n "github.com/goliatone/go-i18n"
)

// ErrMessagesRequired is returned when neither a message lookup nor a
// translator is supplied.
var ErrMessagesRequired = errors.New("di: message lookup or translator is required")

// Options configure the DI container.
type Options struct {
	Config  config.Config
	Storage storage.Providers
	Logger  logger.Logger
	Cache   cache.Cache
	// Messages takes precedence over Translator.
	Messages   messages.Lookup
	Translator i18n.Translator
	Fallbacks  i18n.FallbackResolver
	// Directory and Files replace the storage backed host services.
	Directory host.Directory
	Files     host.FileRepository
	Activity  activity.Hooks
}

// Container wires host services, the resolver, the stylesheet renderer,
// and commands.
type Container struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Namespaces *title.Namespaces
	Messages   *messages.Source
	Directory  host.Directory
	Files      host.FileRepository
	Resolver   *resolver.Service
	Styles     *styles.Renderer
	Commands   *commands.Registry
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	} else {
		cfg = cfg.WithDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lookup := opts.Messages
	if lookup == nil && opts.Translator != nil {
		lookup = messages.TranslatorLookup{Translator: opts.Translator}
	}
	if lookup == nil {
		return nil, ErrMessagesRequired
	}
	source, err := messages.NewSource(lookup, cfg.Localization.ContentLocale, opts.Fallbacks)
	if err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Users == nil {
		providers = storage.NewMemoryProviders()
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	c := opts.Cache
	if c == nil {
		c = &cache.Nop{}
	}

	directory := opts.Directory
	files := opts.Files
	if directory == nil || files == nil {
		adapter := providers.Directory()
		if directory == nil {
			directory = adapter
		}
		if files == nil {
			files = adapter
		}
	}

	namespaces := title.DefaultNamespaces()
	namespaces.Alias(title.NamespaceUser, cfg.Namespaces.UserAliases...)
	namespaces.Alias(title.NamespaceFile, cfg.Namespaces.FileAliases...)

	resolverSvc, err := resolver.New(resolver.Dependencies{
		Groups:      directory,
		Files:       files,
		Messages:    source,
		Namespaces:  namespaces,
		Logger:      lgr,
		Activity:    opts.Activity,
		TitleKey:    cfg.Messages.TitleKey,
		BadgeKey:    cfg.Messages.BadgeKey,
		PlainTitles: cfg.Badges.PlainTitles,
	})
	if err != nil {
		return nil, fmt.Errorf("di: resolver: %w", err)
	}

	renderer, err := styles.New(styles.Dependencies{
		Cache:       c,
		Logger:      lgr,
		CacheTTL:    cfg.Styles.CacheTTL,
		Element:     cfg.Badges.Element,
		BaseClass:   cfg.Badges.BaseClass,
		ClassPrefix: cfg.Badges.ClassPrefix,
	})
	if err != nil {
		return nil, err
	}

	cmdRegistry, err := commands.New(commands.Dependencies{
		Storage:    providers,
		Namespaces: namespaces,
		Activity:   opts.Activity,
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Storage:    providers,
		Logger:     lgr,
		Namespaces: namespaces,
		Messages:   source,
		Directory:  directory,
		Files:      files,
		Resolver:   resolverSvc,
		Styles:     renderer,
		Commands:   cmdRegistry,
	}, nil
}
