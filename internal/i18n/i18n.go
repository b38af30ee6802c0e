// Package i18n holds the site dictionaries (English and Arabic) and picks
// the language for a request.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	EN = "en"
	AR = "ar"

	// Default is used when nothing else matches.
	Default = EN

	CookieName = "lang"
)

//go:embed locales/*.yaml
var locales embed.FS

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// Catalog maps language -> dotted key -> text.
type Catalog struct {
	dicts map[string]map[string]string
}

// Load parses the embedded dictionaries.
func Load() (*Catalog, error) {
	c := &Catalog{dicts: make(map[string]map[string]string)}
	for _, lang := range []string{EN, AR} {
		raw, err := locales.ReadFile(path.Join("locales", lang+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read %s dictionary: %w", lang, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s dictionary: %w", lang, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.dicts[lang] = flat
	}
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case nil:
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}

// T looks key up in lang, then English, then gives the key back.
func (c *Catalog) T(lang, key string) string {
	if s, ok := c.dicts[lang][key]; ok {
		return s
	}
	if s, ok := c.dicts[Default][key]; ok {
		return s
	}
	return key
}

// Messages returns the whole dictionary for lang with English filling gaps.
func (c *Catalog) Messages(lang string) (map[string]string, bool) {
	if !Supported(lang) {
		return nil, false
	}
	out := make(map[string]string, len(c.dicts[Default]))
	for k, v := range c.dicts[Default] {
		out[k] = v
	}
	for k, v := range c.dicts[lang] {
		out[k] = v
	}
	return out, true
}

func Supported(lang string) bool {
	return lang == EN || lang == AR
}

// Dir is the text direction for lang.
func Dir(lang string) string {
	if lang == AR {
		return "rtl"
	}
	return "ltr"
}

// Resolve picks the request language: stored preference first, then the
// Accept-Language header, then Default.
func Resolve(cookie, acceptLanguage string) string {
	if c := strings.ToLower(strings.TrimSpace(cookie)); Supported(c) {
		return c
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}
