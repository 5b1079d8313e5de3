package stats

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/scanbrief/scanbrief/internal/model"
)

// portCaps returns capabilities including the Port column.
func portCaps() model.Capabilities {
	return model.DetectCapabilities([]string{
		model.ColumnHost, model.ColumnName, model.ColumnRisk, model.ColumnPort,
	})
}

// scored builds a finding with a derived CVSS score.
func scored(host, name string, sev model.Severity, cvss float64) model.Finding {
	return model.Finding{Host: host, Name: name, Severity: sev, CVSS: cvss, HasCVSS: true}
}

// TestAggregateEndToEnd tests a small mixed input: three canonical findings
// over two hosts.
func TestAggregateEndToEnd(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		scored("hostA", "SQLi", model.SeverityCritical, 9.8),
		scored("hostA", "XSS", model.SeverityMedium, 5.4),
		scored("hostB", "SQLi", model.SeverityCritical, 9.1),
	}

	stats := Aggregate(findings, nil, portCaps())

	if stats.TotalFindings != 3 {
		t.Errorf("TotalFindings = %d, expected 3", stats.TotalFindings)
	}
	if got := stats.SeverityCount(model.SeverityCritical); got != 2 {
		t.Errorf("Critical count = %d, expected 2", got)
	}
	if got := stats.SeverityCount(model.SeverityMedium); got != 1 {
		t.Errorf("Medium count = %d, expected 1", got)
	}
	if stats.RiskScore != 2*4+1*2 {
		t.Errorf("RiskScore = %d, expected 10", stats.RiskScore)
	}
	if stats.TotalHosts != 2 || stats.HostsWithFindings != 2 {
		t.Errorf("host counts = %d/%d, expected 2/2", stats.TotalHosts, stats.HostsWithFindings)
	}

	if stats.CVSS == nil {
		t.Fatal("expected CVSS statistics")
	}
	if stats.CVSS.Average != 8.1 {
		t.Errorf("Average = %v, expected 8.1", stats.CVSS.Average)
	}
	if stats.CVSS.Max != 9.8 {
		t.Errorf("Max = %v, expected 9.8", stats.CVSS.Max)
	}
	if stats.CVSS.HighCount != 2 {
		t.Errorf("HighCount = %d, expected 2", stats.CVSS.HighCount)
	}

	expectedTop := []model.NameCount{{Name: "SQLi", Count: 2}, {Name: "XSS", Count: 1}}
	if !reflect.DeepEqual(stats.TopFindings, expectedTop) {
		t.Errorf("TopFindings = %v, expected %v", stats.TopFindings, expectedTop)
	}
}

// TestAggregateHostCounts tests that a host carrying only severity-filtered
// rows still counts as scanned while staying out of the issue count.
func TestAggregateHostCounts(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		scored("hostA", "SQLi", model.SeverityCritical, 9.8),
		scored("hostB", "Weak Cipher", model.SeverityMedium, 5.3),
	}
	informational := []model.Finding{
		{Host: "hostC", Name: "Service Banner", SeverityText: "None"},
		{Host: "hostA", Name: "Service Banner", SeverityText: "None"},
		{Name: "Row Without Host", SeverityText: "None"},
	}

	stats := Aggregate(findings, informational, portCaps())

	if stats.TotalHosts != 3 {
		t.Errorf("TotalHosts = %d, expected 3 (hostC was scanned)", stats.TotalHosts)
	}
	if stats.HostsWithFindings != 2 {
		t.Errorf("HostsWithFindings = %d, expected 2", stats.HostsWithFindings)
	}
	if len(stats.TopHosts) != 2 {
		t.Errorf("TopHosts = %v, expected canonical hosts only", stats.TopHosts)
	}
}

// TestAggregateTieBreak tests that equal counts rank by first encounter
// in canonical order, making repeated runs deterministic.
func TestAggregateTieBreak(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Host: "zebra", Name: "B", Severity: model.SeverityLow},
		{Host: "alpha", Name: "A", Severity: model.SeverityLow},
		{Host: "mike", Name: "C", Severity: model.SeverityLow},
	}

	for range 20 {
		stats := Aggregate(findings, nil, portCaps())

		expected := []model.NameCount{
			{Name: "zebra", Count: 1},
			{Name: "alpha", Count: 1},
			{Name: "mike", Count: 1},
		}
		if !reflect.DeepEqual(stats.TopHosts, expected) {
			t.Fatalf("TopHosts = %v, expected first-encounter order %v", stats.TopHosts, expected)
		}
	}
}

// TestAggregateTopNTruncation tests that rankings stop at ten entries.
func TestAggregateTopNTruncation(t *testing.T) {
	t.Parallel()

	var findings []model.Finding
	for i := range 15 {
		findings = append(findings, model.Finding{
			Host:     fmt.Sprintf("host-%02d", i),
			Name:     "Same Finding",
			Severity: model.SeverityLow,
		})
	}

	stats := Aggregate(findings, nil, portCaps())

	if len(stats.TopHosts) != TopN {
		t.Errorf("TopHosts length = %d, expected %d", len(stats.TopHosts), TopN)
	}
	if stats.TotalHosts != 15 {
		t.Errorf("TotalHosts = %d, expected 15", stats.TotalHosts)
	}
}

// TestAggregatePortStats tests port rankings and their omission when the
// Port column is absent.
func TestAggregatePortStats(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Host: "h1", Name: "a", Severity: model.SeverityLow, Port: "443"},
		{Host: "h1", Name: "b", Severity: model.SeverityLow, Port: "443"},
		{Host: "h1", Name: "c", Severity: model.SeverityLow, Port: "80"},
		{Host: "h1", Name: "d", Severity: model.SeverityLow},
	}

	t.Run("with port column", func(t *testing.T) {
		t.Parallel()

		stats := Aggregate(findings, nil, portCaps())
		expected := []model.NameCount{{Name: "443", Count: 2}, {Name: "80", Count: 1}}
		if !reflect.DeepEqual(stats.TopPorts, expected) {
			t.Errorf("TopPorts = %v, expected %v", stats.TopPorts, expected)
		}
	})

	t.Run("without port column", func(t *testing.T) {
		t.Parallel()

		caps := model.DetectCapabilities([]string{model.ColumnHost, model.ColumnName})
		stats := Aggregate(findings, nil, caps)
		if stats.TopPorts != nil {
			t.Errorf("expected no port stats, got %v", stats.TopPorts)
		}
	})
}

// TestAggregateNoCVSS tests that the CVSS section is absent when no
// finding carries a score.
func TestAggregateNoCVSS(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Host: "h1", Name: "a", Severity: model.SeverityHigh},
	}

	stats := Aggregate(findings, nil, portCaps())
	if stats.CVSS != nil {
		t.Errorf("expected nil CVSS stats, got %+v", stats.CVSS)
	}
}

// TestAggregateEmptySet tests aggregation over an empty canonical set.
func TestAggregateEmptySet(t *testing.T) {
	t.Parallel()

	stats := Aggregate(nil, nil, portCaps())

	if stats.TotalFindings != 0 || stats.RiskScore != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if stats.TopHosts != nil || stats.TopFindings != nil {
		t.Error("expected nil rankings for empty input")
	}
}

// TestAverageRounding tests the two-decimal rounding of the mean.
func TestAverageRounding(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		scored("h1", "a", model.SeverityLow, 5.0),
		scored("h1", "b", model.SeverityLow, 5.0),
		scored("h1", "c", model.SeverityLow, 6.0),
	}

	stats := Aggregate(findings, nil, portCaps())
	if stats.CVSS.Average != 5.33 {
		t.Errorf("Average = %v, expected 5.33", stats.CVSS.Average)
	}
}
