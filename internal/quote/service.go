// Package quote drives one quoting session: ingest the source document,
// price every lane and render the proposal.
package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-pricer/internal/config"
	"github.com/sells-group/rfp-pricer/internal/fetcher"
	"github.com/sells-group/rfp-pricer/internal/ingest"
	"github.com/sells-group/rfp-pricer/internal/model"
	"github.com/sells-group/rfp-pricer/internal/pricing"
	"github.com/sells-group/rfp-pricer/internal/report"
	"github.com/sells-group/rfp-pricer/internal/resilience"
	"github.com/sells-group/rfp-pricer/internal/template"
)

// Request is one quoting request.
type Request struct {
	Source ingest.Source
	// GuessMap overrides GuessMapRef and the service default when set.
	GuessMap *ingest.GuessMap
	// GuessMapRef is a local path or URL; empty means the service default.
	GuessMapRef string
	// SkipRender stops after pricing, leaving Quote.HTML empty.
	SkipRender bool
}

// Quote is the outcome of a quoting session.
type Quote struct {
	ID          uuid.UUID           `json:"id"`
	Source      string              `json:"source"`
	Format      string              `json:"format"`
	Payload     model.RfpPayload    `json:"payload"`
	Result      model.PricedResult  `json:"result"`
	Diagnostics []ingest.Diagnostic `json:"diagnostics"`
	// Dropped counts source rows excluded during ingestion.
	Dropped int    `json:"dropped_rows"`
	HTML    string `json:"-"`

	conv report.Converter
}

// Document renders the proposal into the service's document format, falling
// back to the HTML when conversion fails.
func (q *Quote) Document(ctx context.Context) (report.Document, error) {
	if q.HTML == "" {
		return report.Document{}, eris.Errorf("quote %s: proposal was not rendered", q.ID)
	}
	return report.ToDocument(ctx, q.conv, q.HTML), nil
}

// Options configures a Service.
type Options struct {
	Adapter   *ingest.Adapter
	Library   *template.Library
	Converter report.Converter
	Fetcher   fetcher.Fetcher
	// GuessMapRef is used when a request names no guess map.
	GuessMapRef  string
	FetchTimeout time.Duration
}

// Service runs the quoting pipeline. It keeps no per-quote state and is safe
// for concurrent use.
type Service struct {
	adapter      *ingest.Adapter
	lib          *template.Library
	conv         report.Converter
	fetcher      fetcher.Fetcher
	guessRef     string
	fetchTimeout time.Duration
}

// NewService creates a Service. Nil adapter and library use the defaults.
func NewService(opts Options) *Service {
	if opts.Adapter == nil {
		opts.Adapter = ingest.NewAdapter(ingest.Options{})
	}
	if opts.Library == nil {
		opts.Library = template.Default()
	}
	return &Service{
		adapter:      opts.Adapter,
		lib:          opts.Library,
		conv:         opts.Converter,
		fetcher:      opts.Fetcher,
		guessRef:     opts.GuessMapRef,
		fetchTimeout: opts.FetchTimeout,
	}
}

// NewServiceFromConfig wires a Service from application config: template
// overlay, document converter and a retrying HTTP fetcher for remote guess
// maps.
func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	lib := template.Default()
	if cfg.Templates.Path != "" {
		var err error
		lib, err = template.Load(cfg.Templates.Path)
		if err != nil {
			return nil, eris.Wrap(err, "quote: load templates")
		}
	}

	conv, err := report.NewConverter(cfg.Render)
	if err != nil {
		return nil, eris.Wrap(err, "quote: converter")
	}

	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.Ingest.MaxRetries + 1

	return NewService(Options{
		Library:   lib,
		Converter: conv,
		Fetcher: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout: cfg.Ingest.FetchTimeout(),
			Retry:   policy,
		}),
		GuessMapRef:  cfg.Ingest.GuessMap,
		FetchTimeout: cfg.Ingest.FetchTimeout(),
	}), nil
}

// LoadSource reads a source document from a local path or http(s) URL.
func (s *Service) LoadSource(ctx context.Context, ref string) (ingest.Source, error) {
	if s.fetchTimeout > 0 && fetcher.IsRemote(ref) {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	data, err := fetcher.ReadRef(ctx, s.fetcher, ref)
	if err != nil {
		return ingest.Source{}, &ingest.IngestionError{Source: ref, Op: "read source", Err: err}
	}
	return ingest.Source{Name: ref, Data: data}, nil
}

// Library returns the template catalog used for fallback pricing.
func (s *Service) Library() *template.Library {
	return s.lib
}

// Quote ingests, prices and renders one source document. Ingestion failures
// are returned as *ingest.IngestionError.
func (s *Service) Quote(ctx context.Context, req Request) (*Quote, error) {
	start := time.Now()
	log := zap.L().With(zap.String("source", req.Source.Name))

	guess, err := s.guessMap(ctx, req)
	if err != nil {
		return nil, err
	}

	ingested, err := s.adapter.Ingest(ctx, req.Source, guess)
	if err != nil {
		return nil, err
	}
	for _, d := range ingested.Diagnostics {
		log.Debug("quote: ingest diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("sheet", d.Sheet),
			zap.Int("row", d.Row),
			zap.String("message", d.Message),
		)
	}

	q := &Quote{
		ID:          uuid.New(),
		Source:      req.Source.Name,
		Format:      ingested.Format,
		Payload:     ingested.Payload,
		Result:      pricing.PriceAll(ingested.Payload.Lanes, ingested.Payload.Rates, s.lib),
		Diagnostics: ingested.Diagnostics,
		Dropped:     ingested.Dropped(),
		conv:        s.conv,
	}

	if !req.SkipRender {
		q.HTML, err = report.ToHTML(q.Payload, q.Result)
		if err != nil {
			return nil, eris.Wrapf(err, "quote %s", q.ID)
		}
	}

	log.Info("quote: priced",
		zap.String("quote_id", q.ID.String()),
		zap.String("format", q.Format),
		zap.Int("lanes", len(q.Result.Lanes)),
		zap.Int("rates", len(q.Payload.Rates)),
		zap.Int("templated", q.Result.TemplatedCount()),
		zap.Int("dropped_rows", q.Dropped),
		zap.String("total_annual", q.Result.TotalAnnual.StringFixed(2)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return q, nil
}

func (s *Service) guessMap(ctx context.Context, req Request) (*ingest.GuessMap, error) {
	if req.GuessMap != nil {
		return req.GuessMap, nil
	}
	ref := req.GuessMapRef
	if ref == "" {
		ref = s.guessRef
	}
	if ref == "" {
		return nil, nil
	}
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	return ingest.LoadGuessMap(ctx, s.fetcher, ref)
}
