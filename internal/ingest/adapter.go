// Package ingest converts uploaded RFP documents into a canonical payload of
// lanes and rates.
package ingest

import (
	"bytes"
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// Document formats recognised by the adapter.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Placeholder metadata used when a source carries none.
const (
	DefaultBidName      = "RFP Proposal"
	DefaultCustomer     = "Prospective Customer"
	DefaultCurrency     = "USD"
	DefaultValidityDays = 90
)

// Source is an uploaded document held in memory.
type Source struct {
	Name string
	Data []byte
}

// Options configures an Adapter.
type Options struct {
	// Now supplies the date used for synthesized validity windows.
	Now func() time.Time
}

// Adapter turns source documents into RfpPayloads. It holds no state between
// calls and is safe for concurrent use.
type Adapter struct {
	now func() time.Time
}

// NewAdapter creates an Adapter.
func NewAdapter(opts Options) *Adapter {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Adapter{now: now}
}

var (
	zipMagic = []byte("PK\x03\x04")
	utf8BOM  = []byte("\xef\xbb\xbf")
)

// Ingest parses src using guess to locate sheets and columns. guess may be nil.
func (a *Adapter) Ingest(ctx context.Context, src Source, guess *GuessMap) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if guess == nil {
		guess = &GuessMap{}
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(src.Data, utf8BOM))
	var (
		res *Result
		err error
	)
	switch {
	case len(trimmed) == 0:
		return nil, fail(src.Name, "detect format", eris.New("empty document"))
	case trimmed[0] == '{':
		res, err = a.ingestJSON(src.Name, trimmed)
	case bytes.HasPrefix(src.Data, zipMagic):
		res, err = a.ingestWorkbook(src.Name, src.Data, guess)
	default:
		return nil, fail(src.Name, "detect format", eris.New("unsupported document format (want JSON object or XLSX workbook)"))
	}
	if err != nil {
		return nil, err
	}

	if len(res.Payload.Lanes) == 0 {
		return nil, fail(src.Name, "extract lanes",
			eris.Errorf("no lanes found (%d rows dropped)", res.Dropped()))
	}
	return res, nil
}

// PlaceholderMeta returns the metadata synthesized for sources without any.
func (a *Adapter) PlaceholderMeta() model.Meta {
	today := a.now()
	return model.Meta{
		BidName:   DefaultBidName,
		Customer:  DefaultCustomer,
		ValidFrom: today.Format(time.DateOnly),
		ValidTo:   today.AddDate(0, 0, DefaultValidityDays).Format(time.DateOnly),
		Currency:  DefaultCurrency,
	}
}
