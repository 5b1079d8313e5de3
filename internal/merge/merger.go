package merge

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by Merge input validation.
var (
	// ErrTooFewInputs is returned when fewer than two inputs are given.
	ErrTooFewInputs = errors.New("merge requires at least two input files")

	// ErrNotNessusFile is returned for an input without the .nessus suffix.
	ErrNotNessusFile = errors.New("input is not a .nessus file")
)

// nessusFile models the parts of a NessusClientData_v2 document the merge
// needs. Everything inside Policy and ReportHost is carried verbatim.
type nessusFile struct {
	XMLName xml.Name     `xml:"NessusClientData_v2"`
	Policy  rawElement   `xml:"Policy"`
	Report  nessusReport `xml:"Report"`
}

// nessusReport is the Report element with its hosts.
type nessusReport struct {
	Name  string       `xml:"name,attr"`
	Hosts []reportHost `xml:"ReportHost"`
}

// reportHost is one scanned host with its untouched inner XML.
type reportHost struct {
	Name  string `xml:"name,attr"`
	Inner string `xml:",innerxml"`
}

// rawElement captures an element's inner XML verbatim.
type rawElement struct {
	Inner string `xml:",innerxml"`
}

// Merger combines .nessus exports.
type Merger struct {
	// reportName overrides the merged report's name attribute.
	// Empty keeps the first input's name.
	reportName string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets a custom logger for the merger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// WithReportName sets the name attribute of the merged report instead of
// carrying over the first input's name.
func WithReportName(name string) Option {
	return func(m *Merger) {
		m.reportName = name
	}
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// Merge reads the input exports and writes the combined document to the
// output path. The first input is the base: its policy section and report
// name survive; hosts from every input are appended in input order.
//
// Hosts appearing in more than one input are all kept. Deduplication is
// left to the report pipeline, which groups by host name anyway.
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) < 2 {
		return ErrTooFewInputs
	}
	for _, path := range inputs {
		if !strings.HasSuffix(strings.ToLower(path), ".nessus") {
			return fmt.Errorf("%w: %s", ErrNotNessusFile, path)
		}
	}

	var base *nessusFile
	seen := make(map[string]int)

	for i, path := range inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		parsed, err := parseFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		m.logger.Info("read export",
			"file", path,
			"hosts", len(parsed.Report.Hosts),
		)

		for _, host := range parsed.Report.Hosts {
			seen[host.Name]++
		}

		if i == 0 {
			base = parsed
			continue
		}
		base.Report.Hosts = append(base.Report.Hosts, parsed.Report.Hosts...)
	}

	for name, count := range seen {
		if count > 1 {
			m.logger.Warn("host appears in multiple inputs",
				"host", name,
				"occurrences", count,
			)
		}
	}

	if m.reportName != "" {
		base.Report.Name = m.reportName
	}

	if err := writeFile(output, base); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	m.logger.Info("merged exports",
		"inputs", len(inputs),
		"hosts", len(base.Report.Hosts),
		"output", output,
	)
	return nil
}

// parseFile reads and unmarshals one export.
func parseFile(path string) (*nessusFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed nessusFile
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// writeFile serializes the merged document. Inner XML fragments were
// captured verbatim, so the document is assembled textually with escaping
// applied only to the attribute values this package generates.
func writeFile(path string, doc *nessusFile) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	buf.WriteString("<NessusClientData_v2>\n")

	buf.WriteString("<Policy>")
	buf.WriteString(doc.Policy.Inner)
	buf.WriteString("</Policy>\n")

	buf.WriteString(`<Report name="`)
	if err := escapeAttr(&buf, doc.Report.Name); err != nil {
		return err
	}
	buf.WriteString("\">\n")

	for _, host := range doc.Report.Hosts {
		buf.WriteString(`<ReportHost name="`)
		if err := escapeAttr(&buf, host.Name); err != nil {
			return err
		}
		buf.WriteString(`">`)
		buf.WriteString(host.Inner)
		buf.WriteString("</ReportHost>\n")
	}

	buf.WriteString("</Report>\n")
	buf.WriteString("</NessusClientData_v2>\n")

	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// escapeAttr writes s with XML attribute escaping.
func escapeAttr(buf *bytes.Buffer, s string) error {
	return xml.EscapeText(buf, []byte(s))
}
