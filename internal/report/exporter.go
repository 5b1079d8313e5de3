package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scanbrief/scanbrief/internal/model"
)

// Format identifies one output format the Exporter can produce.
type Format string

// Supported output formats.
const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// AllFormats lists every supported format in export order.
var AllFormats = []Format{FormatCSV, FormatMarkdown, FormatHTML, FormatJSON}

// ParseFormats resolves a comma-separated format list. The special value
// "all" expands to every supported format.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no output format specified")
	}

	var formats []Format
	seen := make(map[Format]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "all" {
			return AllFormats, nil
		}

		f := Format(part)
		switch f {
		case FormatCSV, FormatMarkdown, FormatHTML, FormatJSON:
			if _, dup := seen[f]; !dup {
				seen[f] = struct{}{}
				formats = append(formats, f)
			}
		default:
			return nil, fmt.Errorf("unsupported output format %q", part)
		}
	}
	return formats, nil
}

// Exporter writes report files to an output directory. File names carry
// the run timestamp so repeated exports never overwrite each other.
type Exporter struct {
	// dir is the output directory, created on demand.
	dir string

	// prefix is the leading component of every produced file name.
	prefix string

	// version is the tool version embedded in JSON output.
	version string

	// now supplies the timestamp; replaceable in tests.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExportPrefix overrides the default file name prefix.
func WithExportPrefix(prefix string) ExporterOption {
	return func(e *Exporter) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// WithExportVersion sets the tool version embedded in JSON output.
func WithExportVersion(version string) ExporterOption {
	return func(e *Exporter) {
		e.version = version
	}
}

// WithExportLogger sets a custom logger for the exporter.
func WithExportLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithClock overrides the timestamp source. Tests use this for
// deterministic file names.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates an Exporter targeting the given directory.
func NewExporter(dir string, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		dir:    dir,
		prefix: "scan_report",
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Export writes the report in each requested format and returns the paths
// of all files produced. A failed format aborts the export; files already
// written are left in place.
func (e *Exporter) Export(report *model.ScanReport, formats []Format) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := e.now().Format("20060102_150405")
	var paths []string

	for _, format := range formats {
		produced, err := e.exportOne(report, format, stamp)
		if err != nil {
			return paths, err
		}
		paths = append(paths, produced...)
	}

	e.logger.Info("report exported",
		"directory", e.dir,
		"files", len(paths),
	)
	return paths, nil
}

// exportOne writes the files for a single format.
func (e *Exporter) exportOne(report *model.ScanReport, format Format, stamp string) ([]string, error) {
	switch format {
	case FormatCSV:
		return e.exportCSV(report, stamp)
	case FormatMarkdown:
		path := e.path("report", stamp, "md")
		return []string{path}, e.writeFile(path, func(f *os.File) error {
			_, err := NewMarkdownWriter(f).Write(report)
			return err
		})
	case FormatHTML:
		path := e.path("report", stamp, "html")
		return []string{path}, e.writeFile(path, func(f *os.File) error {
			_, err := NewHTMLWriter(f).Write(report)
			return err
		})
	case FormatJSON:
		path := e.path("report", stamp, "json")
		return []string{path}, e.writeFile(path, func(f *os.File) error {
			_, err := NewFullJSONWriter(f, e.version, WithPrettyPrint()).Write(report)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// exportCSV writes the three-file CSV bundle: executive summary, host
// rollup, and detailed findings.
func (e *Exporter) exportCSV(report *model.ScanReport, stamp string) ([]string, error) {
	var paths []string

	if report.ExecutiveSummary != nil {
		path := e.path("summary", stamp, "csv")
		err := e.writeFile(path, func(f *os.File) error {
			return writeSummaryCSV(f, report.ExecutiveSummary)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if report.HostSummary != nil {
		path := e.path("hosts", stamp, "csv")
		err := e.writeFile(path, func(f *os.File) error {
			return writeHostsCSV(f, report.HostSummary)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	path := e.path("details", stamp, "csv")
	err := e.writeFile(path, func(f *os.File) error {
		_, werr := NewCSVWriter(f).Write(report)
		return werr
	})
	if err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

// path builds one timestamped output file path.
func (e *Exporter) path(kind, stamp, ext string) string {
	return filepath.Join(e.dir, fmt.Sprintf("%s_%s_%s.%s", e.prefix, kind, stamp, ext))
}

// writeFile creates the file, runs the render callback, and closes it.
func (e *Exporter) writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := render(f); err != nil {
		f.Close() //nolint:errcheck // render error takes precedence
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
