package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/scanbrief/scanbrief/internal/model"
)

// SummaryNameLimit is the display budget for vulnerability names in the
// executive summary; longer names are truncated with an ellipsis.
const SummaryNameLimit = 60

// SummaryTopN is how many vulnerability names the executive summary lists.
const SummaryTopN = 5

// HostPortsTopN is how many ports each host-summary row lists.
const HostPortsTopN = 3

// BuildExecutiveSummary produces the ordered label/value rows of the
// executive summary. Sections whose source statistic is absent are
// omitted entirely; severity rows with a zero count are skipped.
func BuildExecutiveSummary(report *model.ScanReport) *model.ExecutiveSummary {
	stats := report.Stats
	summary := &model.ExecutiveSummary{}

	add := func(label, value string) {
		summary.Rows = append(summary.Rows, model.SummaryRow{Label: label, Value: value})
	}
	section := func(title string) {
		if len(summary.Rows) > 0 {
			summary.Rows = append(summary.Rows, model.SummaryRow{})
		}
		summary.Rows = append(summary.Rows, model.SummaryRow{Label: title, Section: true})
	}

	section("Assessment Overview")
	add("Total Hosts Scanned", strconv.Itoa(stats.TotalHosts))
	add("Hosts with Security Issues", strconv.Itoa(stats.HostsWithFindings))
	add("Total Records Processed", strconv.Itoa(report.Diagnostics.AfterNoiseFilter))
	add("Security-Relevant Findings", strconv.Itoa(stats.TotalFindings))

	if stats.CVSS != nil {
		section("CVSS Metrics")
		add("Average CVSS Score", model.FormatScore(stats.CVSS.Average))
		add("Highest CVSS Score", model.FormatScore(stats.CVSS.Max))
		add("High Risk Findings (CVSS >= 7.0)", strconv.Itoa(stats.CVSS.HighCount))
	}

	if len(stats.SeverityCounts) > 0 {
		section("Risk Level Distribution")
		for _, sev := range model.SeveritiesDescending {
			if count := stats.SeverityCount(sev); count > 0 {
				add(sev.String()+" Risk", strconv.Itoa(count))
			}
		}
	}

	if len(stats.TopFindings) > 0 {
		section("Most Common Vulnerabilities")
		for i, nc := range stats.TopFindings {
			if i >= SummaryTopN {
				break
			}
			add(truncateName(nc.Name, SummaryNameLimit), strconv.Itoa(nc.Count))
		}
	}

	return summary
}

// BuildHostSummary produces the per-host rollup: one row per host with at
// least one canonical finding, sorted alphabetically.
func BuildHostSummary(report *model.ScanReport) *model.HostSummary {
	perHost := make(map[string][]model.Finding)
	for _, f := range report.Findings {
		perHost[f.Host] = append(perHost[f.Host], f)
	}

	hosts := make([]string, 0, len(perHost))
	for host := range perHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	summary := &model.HostSummary{}
	for _, host := range hosts {
		summary.Rows = append(summary.Rows, buildHostRow(host, perHost[host]))
	}
	return summary
}

// buildHostRow rolls up one host's findings.
func buildHostRow(host string, findings []model.Finding) model.HostRow {
	row := model.HostRow{Host: host, Total: len(findings), MaxCVSS: "N/A"}

	var maxCVSS float64
	var hasCVSS bool
	ports := make(map[string]int)
	portOrder := make(map[string]int)

	for i, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			row.Critical++
		case model.SeverityHigh:
			row.High++
		case model.SeverityMedium:
			row.Medium++
		case model.SeverityLow:
			row.Low++
		}

		if f.HasCVSS && (!hasCVSS || f.CVSS > maxCVSS) {
			maxCVSS = f.CVSS
			hasCVSS = true
		}

		if f.Port != "" {
			if _, seen := ports[f.Port]; !seen {
				portOrder[f.Port] = i
			}
			ports[f.Port]++
		}
	}

	if hasCVSS {
		row.MaxCVSS = model.FormatScore(maxCVSS)
	}
	row.TopPorts = formatTopPorts(ports, portOrder)
	return row
}

// formatTopPorts renders the host's three most frequent ports as
// "port(count)" joined with commas, ties broken by first encounter.
func formatTopPorts(counts map[string]int, order map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	ranked := make([]string, 0, len(counts))
	for port := range counts {
		ranked = append(ranked, port)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return order[ranked[i]] < order[ranked[j]]
	})

	if len(ranked) > HostPortsTopN {
		ranked = ranked[:HostPortsTopN]
	}

	parts := make([]string, len(ranked))
	for i, port := range ranked {
		parts[i] = fmt.Sprintf("%s(%d)", port, counts[port])
	}
	return strings.Join(parts, ", ")
}

// BuildDetailedFindings produces the fully sorted detailed-findings table.
//
// Ordering: severity rank first (Critical before High before Medium before
// Low), then derived CVSS descending with unscored findings last in their
// severity group. The sort is stable so equal-key findings keep their
// canonical relative order.
//
// When the severity filter eliminated every finding, the view falls back
// to the unfiltered cleaned record set and is flagged Unfiltered so
// callers label the output accordingly.
func BuildDetailedFindings(report *model.ScanReport) *model.DetailedView {
	source := report.Findings
	unfiltered := false
	if len(source) == 0 && len(report.Informational) > 0 {
		source = report.Informational
		unfiltered = true
	}

	sorted := make([]model.Finding, len(source))
	copy(sorted, source)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity > sorted[j].Severity
		}
		if sorted[i].HasCVSS != sorted[j].HasCVSS {
			return sorted[i].HasCVSS
		}
		return sorted[i].CVSS > sorted[j].CVSS
	})

	return &model.DetailedView{Findings: sorted, Unfiltered: unfiltered}
}

// Build assembles all three views onto the report.
func Build(report *model.ScanReport) {
	report.ExecutiveSummary = BuildExecutiveSummary(report)
	report.HostSummary = BuildHostSummary(report)
	report.DetailedFindings = BuildDetailedFindings(report)
}

// truncateName caps a vulnerability name at limit characters with an
// ellipsis marker, rune-safe.
func truncateName(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
