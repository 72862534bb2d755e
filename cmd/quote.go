package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/rfp-pricer/internal/quote"
)

var (
	quoteGuessMap    string
	quoteTemplates   string
	quoteOutDir      string
	quoteFormat      string
	quoteDryRun      bool
	quoteConcurrency int
)

var quoteCmd = &cobra.Command{
	Use:   "quote <file|url>...",
	Short: "Price one or more RFP documents and write proposals",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if quoteTemplates != "" {
			cfg.Templates.Path = quoteTemplates
		}
		if quoteGuessMap != "" {
			cfg.Ingest.GuessMap = quoteGuessMap
		}
		if quoteConcurrency > 0 {
			cfg.Batch.MaxConcurrentQuotes = quoteConcurrency
		}
		if err := cfg.Validate("quote"); err != nil {
			return err
		}

		svc, err := quote.NewServiceFromConfig(cfg)
		if err != nil {
			return err
		}

		return runQuotes(ctx, svc, args, quoteOptions{
			OutDir:      quoteOutDir,
			Format:      quoteFormat,
			DryRun:      quoteDryRun,
			Concurrency: cfg.Batch.MaxConcurrentQuotes,
		}, cmd.OutOrStdout())
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteGuessMap, "guess-map", "", "guess map path or URL (default from config)")
	quoteCmd.Flags().StringVar(&quoteTemplates, "templates", "", "template catalog overlay (default from config)")
	quoteCmd.Flags().StringVar(&quoteOutDir, "out-dir", ".", "directory for rendered proposals")
	quoteCmd.Flags().StringVar(&quoteFormat, "format", "pdf", "output format: html, pdf or json")
	quoteCmd.Flags().BoolVar(&quoteDryRun, "dry-run", false, "price and print a summary without writing files")
	quoteCmd.Flags().IntVar(&quoteConcurrency, "concurrency", 0, "documents priced in parallel (default from config)")
	rootCmd.AddCommand(quoteCmd)
}

type quoteOptions struct {
	OutDir      string
	Format      string
	DryRun      bool
	Concurrency int
}

// runQuotes prices every ref concurrently. A failing document is logged and
// counted without aborting the others.
func runQuotes(ctx context.Context, svc *quote.Service, refs []string, opts quoteOptions, out io.Writer) error {
	switch opts.Format {
	case "html", "pdf", "json":
	default:
		return eris.Errorf("quote: unknown format %q (want html, pdf or json)", opts.Format)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return eris.Wrapf(err, "quote: create out dir %s", opts.OutDir)
		}
	}

	zap.L().Info("quoting documents",
		zap.Int("documents", len(refs)),
		zap.Int("concurrency", opts.Concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var (
		mu                sync.Mutex
		succeeded, failed atomic.Int64
	)

	stems := outputStems(refs)
	for i, ref := range refs {
		g.Go(func() error {
			log := zap.L().With(zap.String("source", ref))

			line, err := quoteOne(gctx, svc, ref, stems[i], opts)
			if err != nil {
				failed.Add(1)
				log.Error("quote failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)

			mu.Lock()
			fmt.Fprintln(out, line)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "quote batch")
	}

	zap.L().Info("quoting complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if n := failed.Load(); n > 0 {
		return eris.Errorf("quote: %d of %d documents failed", n, len(refs))
	}
	return nil
}

// quoteOne prices a single document and returns its summary line.
func quoteOne(ctx context.Context, svc *quote.Service, ref, stem string, opts quoteOptions) (string, error) {
	src, err := svc.LoadSource(ctx, ref)
	if err != nil {
		return "", err
	}
	q, err := svc.Quote(ctx, quote.Request{Source: src, SkipRender: opts.DryRun || opts.Format == "json"})
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf("%s\t%d lanes\t%d templated\t%d dropped\ttotal %s",
		ref, len(q.Result.Lanes), q.Result.TemplatedCount(), q.Dropped, q.Result.TotalAnnual.StringFixed(2))
	if opts.DryRun {
		return summary, nil
	}

	path, err := writeQuote(ctx, q, opts.OutDir, opts.Format, stem)
	if err != nil {
		return "", err
	}
	return summary + "\t" + path, nil
}

func writeQuote(ctx context.Context, q *quote.Quote, dir, format, base string) (string, error) {
	var (
		data []byte
		ext  string
	)
	switch format {
	case "json":
		b, err := json.MarshalIndent(q, "", "  ")
		if err != nil {
			return "", eris.Wrap(err, "quote: marshal json")
		}
		data, ext = b, "quote.json"
	case "html":
		data, ext = []byte(q.HTML), "html"
	default:
		doc, err := q.Document(ctx)
		if err != nil {
			return "", err
		}
		data, ext = doc.Data, doc.Ext
	}

	path := filepath.Join(dir, base+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "quote: write %s", path)
	}
	return path, nil
}

// outputStems assigns each ref a distinct output file stem. Refs that share a
// base name are suffixed with their 1-based position in refs.
func outputStems(refs []string) []string {
	counts := make(map[string]int, len(refs))
	for _, ref := range refs {
		counts[strings.ToLower(baseName(ref))]++
	}

	used := make(map[string]bool, len(refs))
	stems := make([]string, len(refs))
	for i, ref := range refs {
		base := baseName(ref)
		if counts[strings.ToLower(base)] > 1 {
			base = fmt.Sprintf("%s-%d", base, i+1)
		}
		stem := base
		for n := 2; used[strings.ToLower(stem)]; n++ {
			stem = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(stem)] = true
		stems[i] = stem
	}
	return stems
}

// baseName derives an output file stem from a path or URL.
func baseName(ref string) string {
	ref = strings.TrimRight(ref, "/")
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := ref[strings.LastIndexAny(ref, `/\`)+1:]
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "proposal"
	}
	return base
}
