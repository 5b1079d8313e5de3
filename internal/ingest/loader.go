package ingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/scanbrief/scanbrief/internal/model"
)

// Encoding names in the fixed preference order used by Load.
// UTF-8 is tried first because modern exports use it; Latin-1 and
// Windows-1252 cover legacy exports with special characters.
const (
	encodingUTF8   = "utf-8"
	encodingLatin1 = "latin-1"
	encodingCP1252 = "windows-1252"
)

// Result is the loader's output: the surviving raw records plus everything
// downstream stages need to branch without touching raw column sets again.
type Result struct {
	// Records is the ordered sequence of surviving raw records.
	Records []model.RawRecord

	// Capabilities records which referenced columns the header contains.
	Capabilities model.Capabilities

	// Encoding is the name of the encoding that decoded the input.
	Encoding string

	// TotalRecords is the number of data rows read before filtering.
	TotalRecords int

	// AfterNoiseFilter is the number of rows surviving denylist and
	// empty-row removal. Equal to len(Records).
	AfterNoiseFilter int
}

// Loader reads a scanner CSV export with encoding fallback and structural
// noise removal. A Loader is stateless between Load calls and safe to reuse.
type Loader struct {
	// denylist maps informational finding titles to drop at load time.
	denylist map[string]struct{}

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithExtraDenylist adds site-specific informational titles to the
// built-in denylist.
func WithExtraDenylist(titles ...string) Option {
	return func(l *Loader) {
		for _, t := range titles {
			l.denylist[t] = struct{}{}
		}
	}
}

// NewLoader creates a Loader with the default denylist.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		denylist: make(map[string]struct{}, len(DefaultDenylist)),
	}
	for _, title := range DefaultDenylist {
		l.denylist[title] = struct{}{}
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// Load reads the byte stream, decodes it with the first working encoding,
// and returns the ordered raw record sequence. It returns an *IngestError
// when no supported encoding yields parseable tabular text.
//
// The encoding loop is bounded: each candidate either produces a result or
// fails fast, so a stream no encoding can handle is a quick hard failure,
// never a hang.
func (l *Loader) Load(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IngestError{Tried: nil, Err: err}
	}

	tried := make([]string, 0, 3)
	var lastErr error

	for _, name := range []string{encodingUTF8, encodingLatin1, encodingCP1252} {
		tried = append(tried, name)

		text, err := decode(name, data)
		if err != nil {
			lastErr = err
			continue
		}

		result, err := l.parse(text)
		if err != nil {
			lastErr = err
			continue
		}

		result.Encoding = name
		l.logger.Info("loaded scanner export",
			"encoding", name,
			"totalRecords", result.TotalRecords,
			"afterNoiseFilter", result.AfterNoiseFilter,
		)
		if missing := result.Capabilities.MissingColumns(); len(missing) > 0 {
			// Dependent features are omitted downstream, not failed.
			l.logger.Warn("export is missing referenced columns", "columns", missing)
		}
		return result, nil
	}

	return nil, &IngestError{Tried: tried, Err: lastErr}
}

// decode converts raw bytes to text using the named encoding.
// UTF-8 input is validated rather than transcoded; the single-byte
// charmaps transcode every byte to its Unicode equivalent.
func decode(name string, data []byte) (string, error) {
	switch name {
	case encodingUTF8:
		if !utf8.Valid(data) {
			return "", &encodingError{name: name}
		}
		return string(data), nil
	case encodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case encodingCP1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", &encodingError{name: name}
	}
}

// encodingError reports that one candidate encoding could not decode the input.
type encodingError struct {
	name string
}

// Error implements the error interface.
func (e *encodingError) Error() string {
	return "input is not valid " + e.name
}

// parse reads decoded text as CSV and applies structural noise filtering.
func (l *Loader) parse(text string) (*Result, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // exports pad or drop trailing columns

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoTabularData
		}
		return nil, err
	}

	// Scanner exports inconsistently pad headers; trim before any lookup.
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	result := &Result{
		Capabilities: model.DetectCapabilities(columns),
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		result.TotalRecords++

		record := make(model.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}

		if record.Empty() {
			continue
		}
		if _, dropped := l.denylist[record[model.ColumnName]]; dropped {
			continue
		}

		result.Records = append(result.Records, record)
	}

	result.AfterNoiseFilter = len(result.Records)
	return result, nil
}
