package fetcher

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher retrieves remote documents.
type Fetcher interface {
	// Fetch downloads url and returns the response body.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// IsRemote reports whether ref is an http(s) URL rather than a local path.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ReadRef loads ref from the network when it is a URL and from disk otherwise.
func ReadRef(ctx context.Context, f Fetcher, ref string) ([]byte, error) {
	if IsRemote(ref) {
		if f == nil {
			return nil, eris.Errorf("fetcher: no http fetcher configured for %s", ref)
		}
		return f.Fetch(ctx, ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", ref)
	}
	return data, nil
}
