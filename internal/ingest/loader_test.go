package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/scanbrief/scanbrief/internal/model"
)

// sampleCSV is a minimal export with padded headers, a denylisted row,
// and an entirely empty row.
const sampleCSV = ` Host ,Port,Protocol,Name,Risk,CVSS v3.0 Base Score
10.0.0.1,443,tcp,SQL Injection,Critical,9.8
10.0.0.1,,,Nessus Scan Information,None,
,,,,,
10.0.0.2,80,tcp,Cross-Site Scripting,Medium,5.4
`

// TestLoaderLoad tests the happy path: header trimming, capability
// detection, and structural noise removal.
func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	loader := NewLoader()
	result, err := loader.Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Encoding != "utf-8" {
		t.Errorf("expected utf-8, got %q", result.Encoding)
	}
	if result.TotalRecords != 4 {
		t.Errorf("expected 4 total records, got %d", result.TotalRecords)
	}
	if result.AfterNoiseFilter != 2 {
		t.Errorf("expected 2 records after noise filter, got %d", result.AfterNoiseFilter)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(result.Records))
	}

	// The padded " Host " header must be usable as "Host".
	if got := result.Records[0][model.ColumnHost]; got != "10.0.0.1" {
		t.Errorf("expected host 10.0.0.1, got %q", got)
	}
	if !result.Capabilities.HasHost || !result.Capabilities.HasCVSSv3 {
		t.Error("expected Host and CVSS v3.0 columns to be detected")
	}
	if result.Capabilities.HasCVSSv2 {
		t.Error("expected CVSS v2.0 column to be absent")
	}
}

// TestLoaderDenylist tests that denylisted titles never survive loading,
// including titles added via WithExtraDenylist.
func TestLoaderDenylist(t *testing.T) {
	t.Parallel()

	input := `Host,Name,Risk
h1,Nessus Scan Information,Critical
h1,Custom Banner Check,None
h1,Outdated TLS,Medium
`

	loader := NewLoader(WithExtraDenylist("Custom Banner Check"))
	result, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(result.Records))
	}
	if got := result.Records[0][model.ColumnName]; got != "Outdated TLS" {
		t.Errorf("expected Outdated TLS to survive, got %q", got)
	}
}

// TestLoaderLatin1Fallback tests that a byte stream invalid as UTF-8 is
// decoded via the Latin-1 fallback.
func TestLoaderLatin1Fallback(t *testing.T) {
	t.Parallel()

	// 0xE9 is "é" in Latin-1 but an invalid standalone byte in UTF-8.
	input := []byte("Host,Name,Risk\nh1,R\xe9sum\xe9 disclosure,High\n")

	loader := NewLoader()
	result, err := loader.Load(strings.NewReader(string(input)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Encoding != "latin-1" {
		t.Errorf("expected latin-1 fallback, got %q", result.Encoding)
	}
	if got := result.Records[0][model.ColumnName]; got != "Résumé disclosure" {
		t.Errorf("expected decoded title, got %q", got)
	}
}

// TestLoaderEmptyInput tests that input with no tabular structure is a
// hard IngestError.
func TestLoaderEmptyInput(t *testing.T) {
	t.Parallel()

	loader := NewLoader()
	_, err := loader.Load(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected an error for empty input")
	}

	var ingestErr *IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("expected *IngestError, got %T", err)
	}
	if !errors.Is(err, ErrNoTabularData) {
		t.Errorf("expected ErrNoTabularData cause, got %v", ingestErr.Err)
	}
	if len(ingestErr.Tried) != 3 {
		t.Errorf("expected 3 encodings tried, got %v", ingestErr.Tried)
	}
}

// TestLoaderReadFailure tests that a failing reader surfaces as IngestError.
func TestLoaderReadFailure(t *testing.T) {
	t.Parallel()

	loader := NewLoader()
	_, err := loader.Load(&failingReader{})
	if err == nil {
		t.Fatal("expected an error from a failing reader")
	}

	var ingestErr *IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("expected *IngestError, got %T", err)
	}
}

// failingReader always returns an error.
type failingReader struct{}

// Read implements io.Reader.
func (*failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

// TestLoaderVariableFieldCounts tests that rows with fewer fields than the
// header still load, with missing cells absent from the record.
func TestLoaderVariableFieldCounts(t *testing.T) {
	t.Parallel()

	input := "Host,Name,Risk,Solution\nh1,Weak Cipher,Low\n"

	loader := NewLoader()
	result, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if _, ok := result.Records[0][model.ColumnSolution]; ok {
		t.Error("expected missing trailing cell to be absent from the record")
	}
}
