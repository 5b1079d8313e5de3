package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/scanbrief/scanbrief/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the detailed findings listing in addition to the
	// summary sections.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-finding listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeHosts(&sb, report)
	if w.verbose {
		w.writeFindings(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     VULNERABILITY SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source File:    %s\n", report.SourceFile))
	sb.WriteString(fmt.Sprintf("Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Records:        %d\n", report.Diagnostics.AfterNoiseFilter))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	if report.Stats == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", report.Stats.SeverityCount(model.SeverityCritical)))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", report.Stats.SeverityCount(model.SeverityHigh)))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", report.Stats.SeverityCount(model.SeverityMedium)))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", report.Stats.SeverityCount(model.SeverityLow)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings across %d hosts\n",
		report.Stats.TotalFindings, report.Stats.HostsWithFindings))
	sb.WriteString(fmt.Sprintf("  RISK SCORE: %d\n", report.Stats.RiskScore))

	if report.Stats.CVSS != nil {
		sb.WriteString(fmt.Sprintf("  CVSS:     avg %s, max %s, %d at or above 7.0\n",
			model.FormatScore(report.Stats.CVSS.Average),
			model.FormatScore(report.Stats.CVSS.Max),
			report.Stats.CVSS.HighCount))
	}
	sb.WriteString("\n")
}

// writeHosts writes the per-host rollup section.
func (w *SimpleWriter) writeHosts(sb *strings.Builder, report *model.ScanReport) {
	if report.HostSummary == nil || len(report.HostSummary.Rows) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HOST SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, h := range report.HostSummary.Rows {
		sb.WriteString(fmt.Sprintf("  %-30s %3d findings  max CVSS %s\n", h.Host, h.Total, h.MaxCVSS))
		if h.TopPorts != "" {
			sb.WriteString(fmt.Sprintf("  %-30s ports: %s\n", "", h.TopPorts))
		}
	}
	sb.WriteString("\n")
}

// writeFindings writes the sorted findings listing.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.ScanReport) {
	if report.DetailedFindings == nil || len(report.DetailedFindings.Findings) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	if report.DetailedFindings.Unfiltered {
		sb.WriteString("FINDINGS (INFORMATIONAL ONLY)\n")
	} else {
		sb.WriteString("FINDINGS\n")
	}
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, f := range report.DetailedFindings.Findings {
		indicator := w.severityIndicator(f.Severity)
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", indicator, f.Name))
		sb.WriteString(fmt.Sprintf("      Host: %s", f.Host))
		if f.Port != "" {
			sb.WriteString(fmt.Sprintf(":%s", f.Port))
		}
		sb.WriteString(fmt.Sprintf("  Risk: %s  CVSS: %s\n", f.SeverityText, f.CVSSString()))
		if f.Synopsis != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", f.Synopsis))
		}
	}
	sb.WriteString("\n")
}

// severityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	default:
		return "i"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by scanbrief\n")
	sb.WriteString("https://github.com/scanbrief/scanbrief\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
