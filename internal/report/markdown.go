package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/scanbrief/scanbrief/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeExecutiveSummary(md, report)
	w.writeHostSummary(md, report)
	w.writeDetailedFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Vulnerability Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source File", "`" + report.SourceFile + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Records Processed", strconv.Itoa(report.Diagnostics.AfterNoiseFilter)},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func (w *MarkdownWriter) statusText(report *model.ScanReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	if report.DetailedFindings != nil && report.DetailedFindings.Unfiltered {
		return "⚠️ Informational Only (no reportable findings)"
	}
	return "✅ Complete"
}

// writeExecutiveSummary writes the executive summary sections.
func (w *MarkdownWriter) writeExecutiveSummary(md *markdown.Markdown, report *model.ScanReport) {
	if report.ExecutiveSummary == nil {
		return
	}

	md.H2("Executive Summary")
	md.PlainText("")

	var rows [][]string
	flush := func() {
		if len(rows) > 0 {
			md.Table(markdown.TableSet{
				Header: []string{"Metric", "Value"},
				Rows:   rows,
			})
			md.PlainText("")
			rows = nil
		}
	}

	for _, row := range report.ExecutiveSummary.Rows {
		switch {
		case row.Section:
			flush()
			md.H3(row.Label)
			md.PlainText("")
		case row.Label != "":
			rows = append(rows, []string{row.Label, row.Value})
		}
	}
	flush()

	if report.Stats != nil && report.HasFindings() {
		w.writePieChart(md, report.Stats)
	}
	w.writeAlert(md, report.Stats)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *model.SummaryStatistics) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, sev := range model.SeveritiesDescending {
		if count := stats.SeverityCount(sev); count > 0 {
			chart.LabelAndIntValue(sev.String(), uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, stats *model.SummaryStatistics) {
	if stats == nil {
		return
	}

	switch {
	case stats.SeverityCount(model.SeverityCritical) > 0:
		md.Cautionf(
			"Critical security issues detected! %d critical finding(s) require immediate attention.",
			stats.SeverityCount(model.SeverityCritical),
		)
	case stats.SeverityCount(model.SeverityHigh) > 0:
		md.Warningf(
			"High severity issues detected. %d high severity finding(s) should be addressed.",
			stats.SeverityCount(model.SeverityHigh),
		)
	case stats.SeverityCount(model.SeverityMedium) > 0:
		md.Importantf(
			"Medium severity issues found. %d finding(s) should be scheduled for remediation.",
			stats.SeverityCount(model.SeverityMedium),
		)
	case stats.TotalFindings > 0:
		md.Note("Only low severity findings detected.")
	default:
		md.Tip("No reportable security issues detected.")
	}
	md.PlainText("")
}

// writeHostSummary writes the per-host rollup table.
func (w *MarkdownWriter) writeHostSummary(md *markdown.Markdown, report *model.ScanReport) {
	if report.HostSummary == nil {
		return
	}

	md.H2("Host Summary")
	md.PlainText("")

	if len(report.HostSummary.Rows) == 0 {
		md.PlainText("No hosts with reportable findings.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.HostSummary.Rows))
	for i, h := range report.HostSummary.Rows {
		rows[i] = []string{
			h.Host,
			strconv.Itoa(h.Total),
			strconv.Itoa(h.Critical),
			strconv.Itoa(h.High),
			strconv.Itoa(h.Medium),
			strconv.Itoa(h.Low),
			h.MaxCVSS,
			h.TopPorts,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Host", "Total", "Critical", "High", "Medium", "Low", "Max CVSS", "Top Ports"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDetailedFindings writes the sorted findings table.
func (w *MarkdownWriter) writeDetailedFindings(md *markdown.Markdown, report *model.ScanReport) {
	if report.DetailedFindings == nil {
		return
	}

	if report.DetailedFindings.Unfiltered {
		md.H2("Detailed Findings (Informational)")
	} else {
		md.H2("Detailed Findings")
	}
	md.PlainText("")

	findings := report.DetailedFindings.Findings
	if len(findings) == 0 {
		md.PlainText("No findings to report.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			f.Host,
			f.Port,
			truncateString(f.Name, 60),
			f.SeverityText,
			f.CVSSString(),
			truncateString(f.Synopsis, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Host", "Port", "Finding", "Risk", "CVSS", "Synopsis"},
		Rows:   rows,
	})
	md.PlainText("")

	// Full descriptions and remediation behind collapsible sections.
	for _, f := range findings {
		if f.Description == "" && f.Solution == "" {
			continue
		}
		body := f.Description
		if f.Solution != "" {
			if body != "" {
				body += " "
			}
			body += "Remediation: " + f.Solution
		}
		md.Details(f.Name+" ("+f.Host+")", body)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [scanbrief](https://github.com/scanbrief/scanbrief)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
