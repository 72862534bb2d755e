package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-pricer/internal/quote"
)

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunQuotes_JSON(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "proposals")
	a := writeInput(t, in, "initech.json", sampleRFP)
	b := writeInput(t, in, "second.json", sampleRFP)

	var buf bytes.Buffer
	err := runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{a, b},
		quoteOptions{OutDir: out, Format: "json", Concurrency: 2}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	data, err := os.ReadFile(filepath.Join(out, "initech.quote.json"))
	require.NoError(t, err)
	var got struct {
		ID     string `json:"id"`
		Result struct {
			TotalAnnual json.Number `json:"total_annual"`
			Lanes       []struct {
				Source      string `json:"source"`
				TemplateKey string `json:"template_key"`
			} `json:"lanes"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotEmpty(t, got.ID)
	require.Len(t, got.Result.Lanes, 2)
	assert.Equal(t, "exact", got.Result.Lanes[0].Source)
	assert.Equal(t, "AIR", got.Result.Lanes[1].TemplateKey)
	assert.FileExists(t, filepath.Join(out, "second.quote.json"))
}

func TestRunQuotes_HTMLAndPDFFallback(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := writeInput(t, in, "initech.json", sampleRFP)

	var buf bytes.Buffer
	require.NoError(t, runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{path},
		quoteOptions{OutDir: out, Format: "html", Concurrency: 1}, &buf))
	html, err := os.ReadFile(filepath.Join(out, "initech.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Initech Freight 2026")

	// No converter configured: the pdf format writes the HTML document.
	require.NoError(t, runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{path},
		quoteOptions{OutDir: out, Format: "pdf", Concurrency: 1}, &buf))
	assert.Contains(t, buf.String(), filepath.Join(out, "initech.html"))
}

func TestRunQuotes_DryRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "never-created")
	path := writeInput(t, in, "initech.json", sampleRFP)

	var buf bytes.Buffer
	require.NoError(t, runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{path},
		quoteOptions{OutDir: out, Format: "pdf", DryRun: true}, &buf))

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "2 lanes")
	assert.Contains(t, line, "1 templated")
	assert.Contains(t, line, "0 dropped")
	assert.NoDirExists(t, out)
}

func TestRunQuotes_PartialFailure(t *testing.T) {
	in := t.TempDir()
	good := writeInput(t, in, "good.json", sampleRFP)
	bad := writeInput(t, in, "bad.csv", "mode,origin\n")

	var buf bytes.Buffer
	err := runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{good, bad, filepath.Join(in, "missing.xlsx")},
		quoteOptions{OutDir: t.TempDir(), Format: "json", Concurrency: 3}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 documents failed")
	assert.Contains(t, buf.String(), "good.json")
}

func TestRunQuotes_SameBaseName(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(in, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(in, "b"), 0o755))
	first := writeInput(t, in, filepath.Join("a", "bid.json"), sampleRFP)
	second := writeInput(t, in, filepath.Join("b", "bid.json"), sampleRFP)
	out := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{first, second},
		quoteOptions{OutDir: out, Format: "json", Concurrency: 2}, &buf))

	assert.FileExists(t, filepath.Join(out, "bid-1.quote.json"))
	assert.FileExists(t, filepath.Join(out, "bid-2.quote.json"))
	assert.NoFileExists(t, filepath.Join(out, "bid.quote.json"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Contains(t, buf.String(), filepath.Join(out, "bid-1.quote.json"))
	assert.Contains(t, buf.String(), filepath.Join(out, "bid-2.quote.json"))
}

func TestOutputStems(t *testing.T) {
	assert.Equal(t, []string{"initech", "acme"}, outputStems([]string{"in/initech.json", "acme.xlsx"}))
	assert.Equal(t, []string{"bid-1", "bid-2"}, outputStems([]string{"a/bid.json", "b/bid.json"}))
	assert.Equal(t, []string{"bid-1", "BID-2"}, outputStems([]string{"bid.xlsx", "https://x.example.com/BID.json"}))
	assert.Equal(t, []string{"bid-1", "bid-2", "bid-2-2"}, outputStems([]string{"bid.json", "bid.json", "bid-2.json"}))
}

func TestRunQuotes_UnknownFormat(t *testing.T) {
	err := runQuotes(context.Background(), quote.NewService(quote.Options{}), []string{"x"},
		quoteOptions{Format: "docx"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "docx"`)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "rfp", baseName("rfp.xlsx"))
	assert.Equal(t, "Acme Tender", baseName("/data/in/Acme Tender.xlsx"))
	assert.Equal(t, "rates", baseName("https://files.example.com/q3/rates.json"))
	assert.Equal(t, "get", baseName("https://files.example.com/get?id=7"))
	assert.Equal(t, "files.example", baseName("https://files.example.com/"))
	assert.Equal(t, "proposal", baseName(""))
}
