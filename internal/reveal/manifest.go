package reveal

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var pagesYAML []byte

// Section is one revealed block on a page.
type Section struct {
	Name     string `yaml:"section" json:"section"`
	Selector string `yaml:"selector" json:"selector"`
	Spec     `yaml:",inline"`
}

// Manifest lists the reveal sections of every page.
type Manifest struct {
	Defaults Spec                 `yaml:"defaults"`
	Pages    map[string][]Section `yaml:"pages"`
}

// LoadManifest parses the embedded page declarations, fills defaults and
// checks every spec.
func LoadManifest() (*Manifest, error) {
	return ParseManifest(pagesYAML)
}

func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for page, sections := range m.Pages {
		for i := range sections {
			sec := &sections[i]
			sec.Spec = withDefaults(sec.Spec, m.Defaults)
			if _, err := sec.Spec.compile(); err != nil {
				return nil, fmt.Errorf("page %s section %s: %w", page, sec.Name, err)
			}
			// normalize so clients get once|reversible
			p, _ := ParsePolicy(string(sec.Policy))
			sec.Policy = p
		}
	}
	return &m, nil
}

func withDefaults(s, d Spec) Spec {
	if s.From == nil {
		s.From = d.From
	}
	if s.Start == "" {
		s.Start = d.Start
	}
	if s.Policy == "" {
		s.Policy = d.Policy
	}
	if s.Duration == 0 {
		s.Duration = d.Duration
	}
	if s.Ease == "" {
		s.Ease = d.Ease
	}
	if s.Stagger == 0 {
		s.Stagger = d.Stagger
	}
	return s
}

// Page returns the sections of one page.
func (m *Manifest) Page(name string) ([]Section, bool) {
	s, ok := m.Pages[name]
	return s, ok
}

// PageNames lists pages in order.
func (m *Manifest) PageNames() []string {
	names := make([]string, 0, len(m.Pages))
	for n := range m.Pages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
