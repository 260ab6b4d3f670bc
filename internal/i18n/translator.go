// Package i18n provides translated user-visible strings.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// FallbackLanguage is used for keys missing from the requested catalog.
const FallbackLanguage = "en"

// Func translates key, substituting {{param}} placeholders.
type Func func(key string, params map[string]string) string

// Translator holds the flattened catalogs of every embedded language.
type Translator struct {
	catalogs    map[string]map[string]string
	defaultLang string
}

// New loads the embedded catalogs. defaultLang is used when a caller
// asks for an unknown or empty language.
func New(defaultLang string) (*Translator, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	t := &Translator{catalogs: make(map[string]map[string]string, len(entries))}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", e.Name(), err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", e.Name(), err)
		}

		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		flat := make(map[string]string)
		flatten("", tree, flat)
		t.catalogs[lang] = flat
	}

	if _, ok := t.catalogs[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("missing %s locale", FallbackLanguage)
	}

	t.defaultLang = FallbackLanguage
	if _, ok := t.catalogs[defaultLang]; ok {
		t.defaultLang = defaultLang
	}

	return t, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Languages returns the available language codes.
func (t *Translator) Languages() []string {
	out := make([]string, 0, len(t.catalogs))
	for lang := range t.catalogs {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Has reports whether lang has a catalog.
func (t *Translator) Has(lang string) bool {
	_, ok := t.catalogs[lang]
	return ok
}

// T translates key into lang. Missing keys fall back to English and
// finally to the key itself.
func (t *Translator) T(lang, key string, params map[string]string) string {
	if !t.Has(lang) {
		lang = t.defaultLang
	}

	s, ok := t.catalogs[lang][key]
	if !ok {
		s, ok = t.catalogs[FallbackLanguage][key]
	}
	if !ok {
		s = key
	}

	for name, value := range params {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

// For binds the translator to a language.
func (t *Translator) For(lang string) Func {
	return func(key string, params map[string]string) string {
		return t.T(lang, key, params)
	}
}

// Identity returns keys untranslated; useful where no catalog is wired.
func Identity(key string, params map[string]string) string {
	for name, value := range params {
		key = strings.ReplaceAll(key, "{{"+name+"}}", value)
	}
	return key
}
