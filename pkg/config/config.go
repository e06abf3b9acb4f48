package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Style delivery modes.
const (
	StyleModeModule = "module"
	StyleModeInline = "inline"
)

// Config captures module-level configuration knobs. Feature packages
// (resolver, hooks, styles) pull from these nested structs.
type Config struct {
	Localization LocalizationConfig `mapstructure:"localization" json:"localization"`
	Messages     MessagesConfig     `mapstructure:"messages" json:"messages"`
	Badges       BadgesConfig       `mapstructure:"badges" json:"badges"`
	Styles       StylesConfig       `mapstructure:"styles" json:"styles"`
	Namespaces   NamespacesConfig   `mapstructure:"namespaces" json:"namespaces"`
}

// LocalizationConfig pins message lookups to the wiki content language.
type LocalizationConfig struct {
	ContentLocale string `mapstructure:"content_locale" json:"content_locale"`
}

// MessagesConfig holds the per-group message key formats. Each must
// contain exactly one %s for the group name.
type MessagesConfig struct {
	TitleKey string `mapstructure:"title_key" json:"title_key"`
	BadgeKey string `mapstructure:"badge_key" json:"badge_key"`
}

// BadgesConfig shapes the icon markup prepended to user links.
type BadgesConfig struct {
	Element       string `mapstructure:"element" json:"element"`
	BaseClass     string `mapstructure:"base_class" json:"base_class"`
	ClassPrefix   string `mapstructure:"class_prefix" json:"class_prefix"`
	UserLinkClass string `mapstructure:"user_link_class" json:"user_link_class"`
	// PlainTitles strips markup from title messages before use.
	PlainTitles bool `mapstructure:"plain_titles" json:"plain_titles"`
}

// StylesConfig controls how badge CSS reaches the page.
type StylesConfig struct {
	Mode       string        `mapstructure:"mode" json:"mode"`
	ModuleName string        `mapstructure:"module_name" json:"module_name"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
}

// NamespacesConfig adds localized namespace names.
type NamespacesConfig struct {
	UserAliases []string `mapstructure:"user_aliases" json:"user_aliases"`
	FileAliases []string `mapstructure:"file_aliases" json:"file_aliases"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Localization: LocalizationConfig{ContentLocale: "en"},
		Messages: MessagesConfig{
			TitleKey: "group-%s",
			BadgeKey: "group-%s-badge",
		},
		Badges: BadgesConfig{
			Element:       "i",
			BaseClass:     "group-badge",
			ClassPrefix:   "role-",
			UserLinkClass: "mw-userlink",
		},
		Styles: StylesConfig{
			Mode:       StyleModeModule,
			ModuleName: "ext.usergroupbadges.styles",
			CacheTTL:   time.Minute,
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Localization.ContentLocale == "" {
		return errors.New("localization.content_locale is required")
	}
	if strings.Count(c.Messages.TitleKey, "%s") != 1 {
		return fmt.Errorf("messages.title_key must contain one %%s, got %q", c.Messages.TitleKey)
	}
	if strings.Count(c.Messages.BadgeKey, "%s") != 1 {
		return fmt.Errorf("messages.badge_key must contain one %%s, got %q", c.Messages.BadgeKey)
	}
	if c.Messages.TitleKey == c.Messages.BadgeKey {
		return errors.New("messages.title_key and messages.badge_key must differ")
	}
	if !isIdent(c.Badges.Element) {
		return fmt.Errorf("badges.element must be a tag name, got %q", c.Badges.Element)
	}
	if c.Badges.BaseClass == "" || strings.ContainsAny(c.Badges.BaseClass, " \t.") {
		return fmt.Errorf("badges.base_class must be a single class, got %q", c.Badges.BaseClass)
	}
	switch c.Styles.Mode {
	case StyleModeModule, StyleModeInline:
	default:
		return fmt.Errorf("styles.mode must be %q or %q, got %q", StyleModeModule, StyleModeInline, c.Styles.Mode)
	}
	if c.Styles.Mode == StyleModeModule && c.Styles.ModuleName == "" {
		return errors.New("styles.module_name is required in module mode")
	}
	if c.Styles.CacheTTL < 0 {
		return fmt.Errorf("styles.cache_ttl must be >= 0")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

// WithDefaults fills empty fields from Defaults.
func (c Config) WithDefaults() Config {
	defaults := Defaults()

	if c.Localization.ContentLocale == "" {
		c.Localization.ContentLocale = defaults.Localization.ContentLocale
	}
	if c.Messages.TitleKey == "" {
		c.Messages.TitleKey = defaults.Messages.TitleKey
	}
	if c.Messages.BadgeKey == "" {
		c.Messages.BadgeKey = defaults.Messages.BadgeKey
	}
	if c.Badges.Element == "" {
		c.Badges.Element = defaults.Badges.Element
	}
	if c.Badges.BaseClass == "" {
		c.Badges.BaseClass = defaults.Badges.BaseClass
	}
	if c.Badges.ClassPrefix == "" {
		c.Badges.ClassPrefix = defaults.Badges.ClassPrefix
	}
	if c.Badges.UserLinkClass == "" {
		c.Badges.UserLinkClass = defaults.Badges.UserLinkClass
	}
	if c.Styles.Mode == "" {
		c.Styles.Mode = defaults.Styles.Mode
	}
	if c.Styles.ModuleName == "" {
		c.Styles.ModuleName = defaults.Styles.ModuleName
	}
	if c.Styles.CacheTTL == 0 {
		c.Styles.CacheTTL = defaults.Styles.CacheTTL
	}
	return c
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
