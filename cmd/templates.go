package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/rfp-pricer/internal/template"
)

var (
	templatesPath string
	templatesJSON bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Print the rate template catalog and key-selection patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := templatesPath
		if path == "" {
			path = cfg.Templates.Path
		}
		lib := template.Default()
		if path != "" {
			var err error
			if lib, err = template.Load(path); err != nil {
				return err
			}
		}
		return printCatalog(cmd.OutOrStdout(), lib, templatesJSON)
	},
}

func init() {
	templatesCmd.Flags().StringVar(&templatesPath, "templates", "", "template catalog overlay (default from config)")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "print JSON instead of YAML")
	rootCmd.AddCommand(templatesCmd)
}

type patternView struct {
	Mode    string       `yaml:"mode" json:"mode"`
	Pattern string       `yaml:"pattern" json:"pattern"`
	Key     template.Key `yaml:"key" json:"key"`
}

type catalogView struct {
	Version   string                             `yaml:"version" json:"version"`
	Templates map[template.Key]template.Template `yaml:"templates" json:"templates"`
	Patterns  []patternView                      `yaml:"patterns" json:"patterns"`
}

// newCatalogView flattens a library into the same layout template.Load
// reads, so printed output can be edited and loaded back.
func newCatalogView(lib *template.Library) catalogView {
	v := catalogView{
		Version:   lib.Version,
		Templates: make(map[template.Key]template.Template, len(template.Keys)),
	}
	for _, k := range template.Keys {
		if t, ok := lib.Template(k); ok {
			v.Templates[k] = t
		}
	}
	for _, p := range lib.Patterns() {
		v.Patterns = append(v.Patterns, patternView{Mode: string(p.Mode), Pattern: p.Pattern.String(), Key: p.Key})
	}
	return v
}

func printCatalog(w io.Writer, lib *template.Library, asJSON bool) error {
	v := newCatalogView(lib)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "templates: encode json")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "templates: encode yaml")
	}
	return eris.Wrap(enc.Close(), "templates: encode yaml")
}
