// Package templates renders localized notification content for reminder
// events. Each locale ships a full Set of renderers; locale strings are
// normalized through alias and primary-subtag matching with English as the
// final fallback.
package templates

import (
	"net/url"
	"strings"

	"finbook/models"
)

// Set renders every reminder kind for one locale. Renderers are pure: same
// input, same content.
type Set interface {
	DueReminder(in models.DueReminderTemplate) models.NotificationContent
	UtilizationAlert(in models.UtilizationTemplate) models.NotificationContent
	BudgetAlert(in models.BudgetAlertTemplate) models.NotificationContent
}

// Canonical registry keys.
const (
	LocaleEnglish = "en"
	LocaleHant    = "zh-Hant"
)

// aliases maps lowercase locale tags to canonical registry keys.
var aliases = map[string]string{
	"en":      LocaleEnglish,
	"en-us":   LocaleEnglish,
	"en-gb":   LocaleEnglish,
	"zh":      LocaleHant,
	"zh-tw":   LocaleHant,
	"zh-hk":   LocaleHant,
	"zh-hant": LocaleHant,
}

// Resolve normalizes a locale string to a canonical registry key: exact
// case-insensitive alias match first, then the primary language subtag,
// then English.
func Resolve(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := aliases[t]; ok {
		return canonical
	}
	if i := strings.IndexAny(t, "-_"); i > 0 {
		if canonical, ok := aliases[t[:i]]; ok {
			return canonical
		}
	}
	return LocaleEnglish
}

// Registry hands out locale-bound template sets. The base URL anchors the
// deep links embedded in every content bundle.
type Registry struct {
	sets map[string]Set
}

// NewRegistry builds the registry with all supported locales.
func NewRegistry(baseURL string) *Registry {
	return &Registry{
		sets: map[string]Set{
			LocaleEnglish: englishSet{base: baseURL},
			LocaleHant:    hantSet{base: baseURL},
		},
	}
}

// ForLocale returns the template set for a locale string, resolving it first.
func (r *Registry) ForLocale(tag string) Set {
	return r.sets[Resolve(tag)]
}

// deepLink resolves a relative path against the application base URL.
func deepLink(base, path string) string {
	b, err := url.Parse(base)
	if err != nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return base
	}
	return b.ResolveReference(ref).String()
}
