package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/rfp-pricer/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBytes bounds the accepted response size.
	MaxBytes int64
	Retry    resilience.Policy
	// Limiter throttles outgoing requests; nil means 10 req/s.
	Limiter *rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http with retry and rate limiting.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher, filling unset options with defaults.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "rfp-pricer/1.0"
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 50 << 20
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultPolicy()
	}
	if opts.Retry.OnRetry == nil {
		opts.Retry.OnRetry = resilience.LogRetry("fetch")
	}
	lim := opts.Limiter
	if lim == nil {
		lim = rate.NewLimiter(10, 10)
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: lim,
	}
}

// Fetch downloads rawURL, retrying 429/5xx responses and network timeouts.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	data, err := resilience.Do(ctx, f.opts.Retry, func(ctx context.Context) ([]byte, error) {
		return f.fetchOnce(ctx, rawURL)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "fetch %s", rawURL)
	}
	return data, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, eris.Errorf("response exceeds %d bytes", f.opts.MaxBytes)
	}
	return body, nil
}
