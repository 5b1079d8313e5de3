package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTabularData is the cause recorded on an IngestError when the input
// decoded successfully but contains no header row.
var ErrNoTabularData = errors.New("input contains no tabular data")

// IngestError reports that the input stream could not be ingested with any
// supported text encoding. It is fatal to the run; no partial result is
// produced.
type IngestError struct {
	// Tried lists the encoding names attempted, in preference order.
	Tried []string

	// Err is the failure from the last encoding attempted.
	Err error
}

// Error implements the error interface.
func (e *IngestError) Error() string {
	return fmt.Sprintf("could not ingest input with any supported encoding (tried %s): %v",
		strings.Join(e.Tried, ", "), e.Err)
}

// Unwrap returns the underlying cause so callers can use errors.Is.
func (e *IngestError) Unwrap() error {
	return e.Err
}
