package report

import (
	"html/template"
	"io"

	"github.com/scanbrief/scanbrief/internal/model"
)

// HTMLWriter outputs reports as a standalone HTML page with inline
// styling, suitable for direct browser viewing and email attachment.
//
// Design decision: We use html/template rather than string concatenation
// because finding names, synopses, and descriptions come straight from
// untrusted scanner exports; contextual auto-escaping is mandatory.
type HTMLWriter struct {
	baseWriter

	// title overrides the page title.
	title string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithTitle sets a custom page title.
func WithTitle(title string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.title = title
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		title:      "Vulnerability Scan Report",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// severityColors maps severity labels to their display colors.
// Unknown labels fall back to neutral gray in the template.
var severityColors = map[string]string{
	"Critical": "#8e44ad",
	"High":     "#e74c3c",
	"Medium":   "#f39c12",
	"Low":      "#27ae60",
}

// htmlData is the template input: the report plus presentation helpers.
type htmlData struct {
	Title  string
	Report *model.ScanReport
}

// SeverityColor returns the display color for a severity label.
func (d htmlData) SeverityColor(label string) string {
	if c, ok := severityColors[label]; ok {
		return c
	}
	return "#7f8c8d"
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 2em; color: #2c3e50; }
h1 { border-bottom: 3px solid #2c3e50; padding-bottom: 0.3em; }
h2 { border-bottom: 1px solid #bdc3c7; padding-bottom: 0.2em; margin-top: 2em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #bdc3c7; padding: 0.5em 0.8em; text-align: left; }
th { background-color: #2c3e50; color: #fff; }
tr:nth-child(even) { background-color: #ecf0f1; }
.section { background-color: #34495e; color: #fff; font-weight: bold; }
.severity { color: #fff; font-weight: bold; padding: 0.2em 0.6em; border-radius: 3px; }
.meta { color: #7f8c8d; font-size: 0.9em; }
.notice { background-color: #fdf2e9; border-left: 4px solid #f39c12; padding: 0.8em 1em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Source: {{.Report.SourceFile}} &middot; Generated: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>

{{if .Report.ExecutiveSummary}}
<h2>Executive Summary</h2>
<table>
{{range .Report.ExecutiveSummary.Rows}}{{if .Section}}<tr><td class="section" colspan="2">{{.Label}}</td></tr>
{{else if .Label}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}{{end}}
</table>
{{end}}

{{if .Report.HostSummary}}
<h2>Host Summary</h2>
{{if .Report.HostSummary.Rows}}
<table>
<tr><th>Host</th><th>Total</th><th>Critical</th><th>High</th><th>Medium</th><th>Low</th><th>Max CVSS</th><th>Top Ports</th></tr>
{{range .Report.HostSummary.Rows}}<tr><td>{{.Host}}</td><td>{{.Total}}</td><td>{{.Critical}}</td><td>{{.High}}</td><td>{{.Medium}}</td><td>{{.Low}}</td><td>{{.MaxCVSS}}</td><td>{{.TopPorts}}</td></tr>
{{end}}
</table>
{{else}}
<p>No hosts with reportable findings.</p>
{{end}}
{{end}}

{{if .Report.DetailedFindings}}
{{if .Report.DetailedFindings.Unfiltered}}
<h2>Detailed Findings (Informational)</h2>
<p class="notice">The export contained no reportable findings; informational records are shown instead.</p>
{{else}}
<h2>Detailed Findings</h2>
{{end}}
{{$d := .}}
<table>
<tr><th>Host</th><th>Port</th><th>Finding</th><th>Risk</th><th>CVSS</th><th>Synopsis</th></tr>
{{range .Report.DetailedFindings.Findings}}<tr><td>{{.Host}}</td><td>{{.Port}}</td><td>{{.Name}}</td><td><span class="severity" style="background-color: {{$d.SeverityColor .SeverityText}}">{{.SeverityText}}</span></td><td>{{.CVSSString}}</td><td>{{.Synopsis}}</td></tr>
{{end}}
</table>
{{end}}

<hr>
<p class="meta">Report generated by scanbrief</p>
</body>
</html>
`))

// Write renders the full report as an HTML page.
func (w *HTMLWriter) Write(report *model.ScanReport) (int, error) {
	counter := &countingWriter{w: w.output}
	err := htmlTemplate.Execute(counter, htmlData{Title: w.title, Report: report})
	return counter.n, err
}
