package model

import "strconv"

// NameCount is one entry in a top-N ranking: a grouping key and the number
// of findings that share it. Rankings preserve first-encountered order for
// equal counts so repeated runs produce identical output.
type NameCount struct {
	// Name is the grouping key (host, finding title, or port).
	Name string `json:"name"`

	// Count is the number of canonical findings under this key.
	Count int `json:"count"`
}

// CVSSStats holds descriptive statistics over findings with a derived score.
// It is nil on SummaryStatistics when no finding carries a score, which
// renderers use to omit the CVSS section entirely.
type CVSSStats struct {
	// Average is the arithmetic mean rounded to two decimals.
	Average float64 `json:"average"`

	// Max is the highest derived score.
	Max float64 `json:"max"`

	// HighCount is the number of findings scoring 7.0 or above.
	HighCount int `json:"high_count"`

	// ScoredFindings is the number of findings contributing to the stats.
	ScoredFindings int `json:"scored_findings"`
}

// SummaryStatistics is a derived, read-only snapshot of the canonical
// finding set. It is computed once per pipeline run by the aggregator and
// never mutated afterward; views and chart renderers only read from it.
type SummaryStatistics struct {
	// TotalFindings is the size of the canonical finding set.
	TotalFindings int `json:"total_findings"`

	// SeverityCounts is the severity histogram. Only severities present
	// in the canonical set appear as keys.
	SeverityCounts map[Severity]int `json:"severity_counts"`

	// RiskScore is the weighted sum of severity counts
	// (Critical=4, High=3, Medium=2, Low=1).
	RiskScore int `json:"risk_score"`

	// TotalHosts is the number of distinct hosts that appear anywhere in
	// the export, including hosts whose every row was severity-filtered.
	TotalHosts int `json:"total_hosts"`

	// HostsWithFindings is the number of distinct hosts in the canonical
	// set, so hosts carrying only informational rows are excluded.
	HostsWithFindings int `json:"hosts_with_findings"`

	// TopHosts ranks the ten most affected hosts by finding count.
	TopHosts []NameCount `json:"top_hosts,omitempty"`

	// TopFindings ranks the ten most common finding titles.
	TopFindings []NameCount `json:"top_findings,omitempty"`

	// CVSS holds score statistics, or nil when no finding has a score.
	CVSS *CVSSStats `json:"cvss,omitempty"`

	// TopPorts ranks the ten most affected ports among findings that
	// carry a port value.
	TopPorts []NameCount `json:"top_ports,omitempty"`
}

// SeverityCount returns the histogram count for the given severity,
// or zero when the severity is absent from the canonical set.
func (s *SummaryStatistics) SeverityCount(sev Severity) int {
	if s == nil || s.SeverityCounts == nil {
		return 0
	}
	return s.SeverityCounts[sev]
}

// FormatScore renders a CVSS score without trailing zeros ("9.8", "10").
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
