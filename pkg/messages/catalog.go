package messages

import (
	"fmt"

	i18n "github.com/goliatone/go-i18n"
)

// Translations builds go-i18n catalogs from locale -> key -> text maps.
func Translations(entries map[string]map[string]string) i18n.Translations {
	out := make(i18n.Translations, len(entries))
	for locale, messages := range entries {
		out[locale] = newCatalog(locale, messages)
	}
	return out
}

// GroupMessages returns the title and badge message pair for a group,
// keyed with the given formats (e.g. "group-%s", "group-%s-badge").
func GroupMessages(titleKey, badgeKey, group, title, badge string) map[string]string {
	out := make(map[string]string, 2)
	if title != "" {
		out[fmt.Sprintf(titleKey, group)] = title
	}
	if badge != "" {
		out[fmt.Sprintf(badgeKey, group)] = badge
	}
	return out
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}
