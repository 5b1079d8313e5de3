package model

// SummaryRow is one label/value pair in the executive summary.
// Section headers are rows with an empty Value and Section set to true;
// blank separator rows have both fields empty.
type SummaryRow struct {
	// Label is the metric name or section title.
	Label string `json:"label"`

	// Value is the formatted metric value; empty for headers and separators.
	Value string `json:"value"`

	// Section marks this row as a section title so renderers can style it.
	Section bool `json:"section,omitempty"`
}

// ExecutiveSummary is the ordered sequence of executive-summary rows.
// Row order is fixed: overview counts, CVSS metrics, severity distribution
// (Critical -> Low), then the five most common vulnerabilities. Sections
// whose source statistic is absent are omitted entirely.
type ExecutiveSummary struct {
	Rows []SummaryRow `json:"rows"`
}

// HostRow is one row of the per-host rollup.
type HostRow struct {
	// Host is the host identifier.
	Host string `json:"host"`

	// Total is the number of canonical findings on this host.
	Total int `json:"total"`

	// Critical, High, Medium, and Low are the per-severity counts.
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`

	// MaxCVSS is the highest derived score on this host, formatted for
	// display, or "N/A" when no finding on the host carries a score.
	MaxCVSS string `json:"max_cvss"`

	// TopPorts is a comma-joined list of the three most frequent ports
	// on this host with occurrence counts, e.g. "443(3), 80(1)".
	TopPorts string `json:"top_ports,omitempty"`
}

// HostSummary is the per-host rollup view: one row per host with at least
// one canonical finding, sorted alphabetically by host.
type HostSummary struct {
	Rows []HostRow `json:"rows"`
}

// DetailedView is the fully sorted detailed-findings table.
//
// Findings are ordered by severity rank (Critical first), then derived CVSS
// descending with unscored findings last in their severity group. The sort
// is stable: equal-key findings keep their canonical relative order.
type DetailedView struct {
	// Findings is the sorted table content.
	Findings []Finding `json:"findings"`

	// Unfiltered is true when the severity filter eliminated every
	// finding and the view fell back to the unfiltered record set.
	// Renderers must label the output accordingly.
	Unfiltered bool `json:"unfiltered,omitempty"`
}
