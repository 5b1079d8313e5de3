package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/scanbrief/scanbrief/internal/model"
)

// CSVWriter outputs the detailed findings table in CSV format.
// This is the machine-readable counterpart of the detailed view: one row
// per finding in fully sorted order.
//
// Design decision: We use standard encoding/csv because the output is
// plain RFC 4180 CSV; quoting and escaping are the only requirements and
// the standard library handles both.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// detailedHeader is the column order for the detailed findings CSV.
var detailedHeader = []string{
	"Host", "Port", "Protocol", "Name", "Risk", "CVSS", "CVE",
	"Synopsis", "Description", "Solution",
}

// Write renders the detailed findings in CSV format.
func (w *CSVWriter) Write(report *model.ScanReport) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(detailedHeader); err != nil {
		return counter.n, err
	}

	findings := report.Findings
	if report.DetailedFindings != nil {
		findings = report.DetailedFindings.Findings
	}

	for _, f := range findings {
		row := []string{
			f.Host,
			f.Port,
			f.Protocol,
			f.Name,
			f.SeverityText,
			f.CVSSString(),
			f.CVE,
			f.Synopsis,
			f.Description,
			f.Solution,
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// writeSummaryCSV renders the executive summary rows as CSV.
// Section headers become their own rows with an empty value column.
func writeSummaryCSV(output io.Writer, summary *model.ExecutiveSummary) error {
	cw := csv.NewWriter(output)

	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	for _, row := range summary.Rows {
		if row.Label == "" && row.Value == "" && !row.Section {
			continue
		}
		if err := cw.Write([]string{row.Label, row.Value}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeHostsCSV renders the per-host rollup as CSV.
func writeHostsCSV(output io.Writer, summary *model.HostSummary) error {
	cw := csv.NewWriter(output)

	header := []string{"Host", "Total", "Critical", "High", "Medium", "Low", "Max CVSS", "Top Ports"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range summary.Rows {
		row := []string{
			h.Host,
			strconv.Itoa(h.Total),
			strconv.Itoa(h.Critical),
			strconv.Itoa(h.High),
			strconv.Itoa(h.Medium),
			strconv.Itoa(h.Low),
			h.MaxCVSS,
			h.TopPorts,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
