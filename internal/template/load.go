package template

import (
	"maps"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// fileConfig is the on-disk catalog layout.
type fileConfig struct {
	Version   string           `yaml:"version"`
	Templates map[Key]Template `yaml:"templates"`
	Patterns  []patternConfig  `yaml:"patterns"`
}

type patternConfig struct {
	Mode    string `yaml:"mode"`
	Pattern string `yaml:"pattern"`
	Key     Key    `yaml:"key"`
}

// Load reads a YAML catalog from path and overlays it on the built-in one.
// Templates in the file replace built-in templates with the same key; a
// non-empty patterns list replaces the built-in pattern table.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "template: read catalog %s", path)
	}
	return Parse(data)
}

// Parse overlays a YAML catalog document on the built-in catalog.
func Parse(data []byte) (*Library, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "template: parse catalog")
	}

	lib := &Library{
		Version:   BuiltinVersion,
		templates: maps.Clone(builtin),
		patterns:  builtinPatterns(),
	}
	if fc.Version != "" {
		lib.Version = fc.Version
	}

	for k, t := range fc.Templates {
		if !ValidKey(k) {
			return nil, eris.Errorf("template: unknown template key %q", k)
		}
		if err := checkTemplate(k, &t); err != nil {
			return nil, err
		}
		lib.templates[k] = t
	}

	if len(fc.Patterns) > 0 {
		patterns := make([]KeyPattern, 0, len(fc.Patterns))
		for i, pc := range fc.Patterns {
			mode, ok := model.ParseMode(pc.Mode)
			if !ok {
				return nil, eris.Errorf("template: pattern %d: unknown mode %q", i, pc.Mode)
			}
			if !ValidKey(pc.Key) {
				return nil, eris.Errorf("template: pattern %d: unknown template key %q", i, pc.Key)
			}
			re, err := regexp.Compile(pc.Pattern)
			if err != nil {
				return nil, eris.Wrapf(err, "template: pattern %d", i)
			}
			patterns = append(patterns, KeyPattern{Mode: mode, Pattern: re, Key: pc.Key})
		}
		lib.patterns = patterns
	}

	return lib, nil
}

func checkTemplate(k Key, t *Template) error {
	if t.Currency == "" {
		t.Currency = "USD"
	}
	specs := []*ChargeSpec{&t.Base}
	for i := range t.Accessorials {
		specs = append(specs, &t.Accessorials[i])
	}
	for _, s := range specs {
		if s.Name == "" {
			return eris.Errorf("template: %s: charge without a name", k)
		}
		u, ok := model.ParseUOM(string(s.UOM))
		if !ok {
			return eris.Errorf("template: %s: charge %q has unknown uom %q", k, s.Name, s.UOM)
		}
		s.UOM = u
		if s.Rate < 0 || (s.Min != nil && *s.Min < 0) {
			return eris.Errorf("template: %s: charge %q has a negative amount", k, s.Name)
		}
	}
	return nil
}
