package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/rfp-pricer/internal/fetcher"
)

// SheetGuess names the sheet holding one collection and maps canonical field
// names to the literal column headers used in that sheet.
type SheetGuess struct {
	Sheet   string            `yaml:"sheet" json:"sheet,omitempty"`
	Columns map[string]string `yaml:"columns" json:"columns,omitempty"`
}

// Header returns the column header to read for a canonical field. Fields
// without a mapping entry are read from a column of the same name.
func (g *SheetGuess) Header(field string) string {
	if g != nil {
		if h, ok := g.Columns[field]; ok && strings.TrimSpace(h) != "" {
			return h
		}
	}
	return field
}

// SheetName returns the configured sheet name, or "".
func (g *SheetGuess) SheetName() string {
	if g == nil {
		return ""
	}
	return strings.TrimSpace(g.Sheet)
}

// GuessMap tells the adapter where lanes and rates live in a workbook.
type GuessMap struct {
	Lanes *SheetGuess `yaml:"lanes" json:"lanes,omitempty"`
	Rates *SheetGuess `yaml:"rates" json:"rates,omitempty"`
}

// ParseGuessMap decodes a guess-map document. JSON documents are accepted as
// they are valid YAML.
func ParseGuessMap(data []byte) (*GuessMap, error) {
	var g GuessMap
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, eris.Wrap(err, "parse guess map")
	}
	return &g, nil
}

// LoadGuessMap reads a guess map from a local path or http(s) URL. An empty
// ref yields an empty map (first-sheet, same-name columns). Any failure is
// returned as an IngestionError.
func LoadGuessMap(ctx context.Context, f fetcher.Fetcher, ref string) (*GuessMap, error) {
	if strings.TrimSpace(ref) == "" {
		return &GuessMap{}, nil
	}
	data, err := fetcher.ReadRef(ctx, f, ref)
	if err != nil {
		return nil, fail(ref, "load guess map", err)
	}
	g, err := ParseGuessMap(data)
	if err != nil {
		return nil, fail(ref, "load guess map", err)
	}
	return g, nil
}
