// Package messages resolves wiki interface messages through go-i18n
// catalogs. Lookups are pinned to one language with a fallback chain, the
// way the host resolves messages in its content language.
package messages

import (
	"errors"
	"strings"

	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	i18n "github.com/goliatone/go-i18n"
)

// ErrLookupRequired is returned when no message lookup is configured.
var ErrLookupRequired = errors.New("messages: lookup is required")

// Lookup returns the raw text of a message. go-i18n stores built with
// i18n.NewStaticStore satisfy it directly.
type Lookup interface {
	Get(locale, key string) (string, bool)
}

// TranslatorLookup adapts an i18n.Translator. Values go through the
// translator's formatting, so prefer a store when messages carry '%'.
type TranslatorLookup struct {
	Translator i18n.Translator
}

func (t TranslatorLookup) Get(locale, key string) (string, bool) {
	if t.Translator == nil {
		return "", false
	}
	value, err := t.Translator.Translate(locale, key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Source is a host.MessageSource over a Lookup.
type Source struct {
	lookup Lookup
	chain  []string
}

var _ host.MessageSource = (*Source)(nil)

// NewSource pins lookups to locale, then its fallbacks, then English.
func NewSource(lookup Lookup, locale string, fallbacks i18n.FallbackResolver) (*Source, error) {
	if lookup == nil {
		return nil, ErrLookupRequired
	}
	chain := make([]string, 0, 4)
	add := func(code string) {
		code = strings.TrimSpace(code)
		if code == "" {
			return
		}
		for _, existing := range chain {
			if strings.EqualFold(existing, code) {
				return
			}
		}
		chain = append(chain, code)
	}
	add(locale)
	if fallbacks != nil {
		for _, fb := range fallbacks.Resolve(locale) {
			add(fb)
		}
	}
	add("en")
	return &Source{lookup: lookup, chain: chain}, nil
}

// Locales returns the resolution chain.
func (s *Source) Locales() []string {
	return append([]string(nil), s.chain...)
}

// Exists reports whether key resolves in any locale of the chain.
func (s *Source) Exists(key string) bool {
	_, ok := s.get(key)
	return ok
}

// Plain returns the message text, or the missing-message marker.
func (s *Source) Plain(key string) string {
	if value, ok := s.get(key); ok {
		return value
	}
	return MissingMarker(key)
}

func (s *Source) get(key string) (string, bool) {
	for _, locale := range s.chain {
		if value, ok := s.lookup.Get(locale, key); ok {
			return value, true
		}
	}
	return "", false
}

// MissingMarker is how the host displays an undefined message.
func MissingMarker(key string) string {
	return "⧼" + key + "⧽"
}
