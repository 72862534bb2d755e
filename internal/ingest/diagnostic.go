package ingest

import (
	"fmt"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// DiagnosticKind classifies a non-fatal ingestion finding.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// KindDropped means a whole row was excluded.
	KindDropped DiagnosticKind = "dropped"
	// KindCoerced means a value was replaced by a default (e.g. unknown mode).
	KindCoerced DiagnosticKind = "coerced"
	// KindDefaulted means a missing value was synthesized.
	KindDefaulted DiagnosticKind = "defaulted"
	// KindSkipped means a single cell value was ignored.
	KindSkipped DiagnosticKind = "skipped"
)

// Diagnostic describes one row-level finding. Row is the 1-based sheet row,
// or 0 for document-level findings.
type Diagnostic struct {
	Sheet   string         `json:"sheet,omitempty"`
	Row     int            `json:"row,omitempty"`
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Row > 0 {
		return fmt.Sprintf("%s row %d: %s: %s", d.Sheet, d.Row, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Result is the outcome of an ingestion: the payload plus everything that
// was dropped or adjusted on the way.
type Result struct {
	Payload     model.RfpPayload `json:"payload"`
	Format      string           `json:"format"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
}

// Count returns the number of diagnostics of the given kind.
func (r *Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Dropped returns the number of rows excluded from the payload.
func (r *Result) Dropped() int {
	return r.Count(KindDropped)
}

func (r *Result) add(sheet string, row int, kind DiagnosticKind, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Sheet:   sheet,
		Row:     row,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}
