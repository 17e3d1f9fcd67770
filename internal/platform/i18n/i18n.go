// Package i18n renders user-facing display messages by locale.
package i18n

import (
	"bytes"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

var supported = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
}

var matcher = language.NewMatcher(supported)

// Catalog maps message keys to templates for one locale.
type Catalog struct {
	locale   string
	messages map[string]string
}

// ForLocale returns the catalog best matching the requested locale.
// Unknown or empty locales fall back to the base locale.
func ForLocale(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	tag, err := language.Parse(requested)
	if err != nil {
		tag = language.MustParse(BaseLocale)
	}
	_, index, _ := matcher.Match(tag)
	resolved := supported[index].String()
	messages, ok := catalogs[resolved]
	if !ok {
		resolved = BaseLocale
		messages = catalogs[BaseLocale]
	}
	return &Catalog{locale: resolved, messages: messages}
}

// Locale returns the resolved locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for key with the given data.
// Unknown keys render as the key itself so missing translations stay visible.
func (c *Catalog) Format(key string, data map[string]string) string {
	tmpl, ok := c.messages[key]
	if !ok {
		return key
	}
	if data == nil {
		data = map[string]string{}
	}
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return tmpl
	}
	return buf.String()
}
