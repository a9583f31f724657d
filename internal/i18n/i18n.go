// Package i18n holds the bundled locale tables and the lookup rules for them.
package i18n

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fxconv/internal/domain"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var supported = []language.Tag{
	language.MustParse(domain.LocaleZhCN),
	language.MustParse(domain.LocaleEnUS),
}

var matcher = language.NewMatcher(supported)

// Translator resolves dotted keys against the table of the current locale.
type Translator struct {
	tables map[string]map[string]any

	mu     sync.RWMutex
	locale string
}

// T looks key up in the current locale.
func (t *Translator) T(key string, params map[string]string) string {
	return t.TFor(t.Locale(), key, params)
}

// TFor looks key up in locale. The key itself is returned when it does not
// resolve to a string. Every {name} placeholder is replaced from params.
func (t *Translator) TFor(locale, key string, params map[string]string) string {
	var node any = t.tables[locale]
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node = m[part]
	}
	s, ok := node.(string)
	if !ok {
		return key
	}
	for name, v := range params {
		s = strings.ReplaceAll(s, "{"+name+"}", v)
	}
	return s
}

// SetLocale switches the current locale. Unknown locales are ignored.
func (t *Translator) SetLocale(locale string) bool {
	canonical, ok := Canonical(locale)
	if !ok {
		return false
	}
	if _, ok = t.tables[canonical]; !ok {
		return false
	}
	t.mu.Lock()
	t.locale = canonical
	t.mu.Unlock()
	return true
}

func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

func (t *Translator) CurrencyName(c domain.Currency) string {
	return CurrencyName(c, t.Locale())
}

// RelativeTime renders the age of the rates, e.g. "5 minutes ago". ok=false
// means there is no timestamp at all.
func (t *Translator) RelativeTime(locale string, age time.Duration, ok bool) string {
	if !ok {
		return t.TFor(locale, "time.never", nil)
	}
	minutes := int(age / time.Minute)
	switch {
	case minutes < 1:
		return t.TFor(locale, "time.justNow", nil)
	case minutes < 60:
		return t.TFor(locale, "time.minutesAgo", map[string]string{"n": strconv.Itoa(minutes)})
	case minutes < 24*60:
		return t.TFor(locale, "time.hoursAgo", map[string]string{"n": strconv.Itoa(minutes / 60)})
	default:
		return t.TFor(locale, "time.daysAgo", map[string]string{"n": strconv.Itoa(minutes / (24 * 60))})
	}
}

// CurrencyName prefers the Chinese name for zh-CN and the English name
// otherwise, falling back to whichever is set.
func CurrencyName(c domain.Currency, locale string) string {
	if locale == domain.LocaleZhCN {
		if c.Name != "" {
			return c.Name
		}
		return c.NameEn
	}
	if c.NameEn != "" {
		return c.NameEn
	}
	return c.Name
}

// Canonical normalizes a BCP 47 tag ("en-us", "zh_CN") to one of the
// supported locale names.
func Canonical(locale string) (string, bool) {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", false
	}
	for _, s := range supported {
		if tag.String() == s.String() {
			return s.String(), true
		}
	}
	return "", false
}

// Match picks the best supported locale for an Accept-Language header, or
// fallback when nothing matches.
func Match(acceptLanguage, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx].String()
}

func loadTables() (map[string]map[string]any, error) {
	tables := make(map[string]map[string]any, len(supported))
	for _, tag := range supported {
		name := tag.String()
		raw, err := localeFS.ReadFile("locales/" + name + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var table map[string]any
		if err = yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("decode locale %s: %w", name, err)
		}
		tables[name] = table
	}
	return tables, nil
}

func New(locale string) (*Translator, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	t := &Translator{tables: tables, locale: domain.LocaleZhCN}
	t.SetLocale(locale)
	return t, nil
}
