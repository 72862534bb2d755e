package ingest

import (
	"errors"
	"fmt"
)

// IngestionError is a fatal ingestion failure: the source document or its
// guess map could not be read, or it yielded nothing to price.
type IngestionError struct {
	Source string
	Op     string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("ingest: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ingest %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// IsIngestionError reports whether err's chain contains an IngestionError.
func IsIngestionError(err error) bool {
	var ie *IngestionError
	return errors.As(err, &ie)
}

func fail(source, op string, err error) error {
	return &IngestionError{Source: source, Op: op, Err: err}
}
