package canonical

import (
	"strings"
	"testing"

	"github.com/scanbrief/scanbrief/internal/model"
)

// fullCaps returns capabilities with every referenced column present.
func fullCaps() model.Capabilities {
	return model.DetectCapabilities([]string{
		model.ColumnHost, model.ColumnPort, model.ColumnProtocol,
		model.ColumnName, model.ColumnRisk, model.ColumnCVSSv3,
		model.ColumnCVSSv2, model.ColumnCVE, model.ColumnSynopsis,
		model.ColumnDescription, model.ColumnSolution,
	})
}

// TestCanonicalizeSeverityFilter tests that only reportable severities
// enter the canonical set and that counts are observable.
func TestCanonicalizeSeverityFilter(t *testing.T) {
	t.Parallel()

	records := []model.RawRecord{
		{model.ColumnHost: "h1", model.ColumnName: "SQLi", model.ColumnRisk: "Critical"},
		{model.ColumnHost: "h2", model.ColumnName: "Info", model.ColumnRisk: "None"},
		{model.ColumnHost: "h3", model.ColumnName: "Odd", model.ColumnRisk: "Severe"},
		{model.ColumnHost: "h4", model.ColumnName: "lowercase", model.ColumnRisk: "critical"},
		{model.ColumnHost: "h5", model.ColumnName: "XSS", model.ColumnRisk: " Medium "},
	}

	result := New().Canonicalize(records, fullCaps())

	if result.Retained != 2 {
		t.Fatalf("expected 2 retained findings, got %d", result.Retained)
	}
	if result.Discarded != 3 {
		t.Errorf("expected 3 discarded records, got %d", result.Discarded)
	}
	if len(result.Informational) != 3 {
		t.Errorf("expected 3 informational records, got %d", len(result.Informational))
	}

	for _, f := range result.Findings {
		if !f.Severity.Reportable() {
			t.Errorf("finding %q has non-reportable severity %v", f.Name, f.Severity)
		}
	}

	// Out-of-set labels keep the export's spelling for the info sheet.
	for _, f := range result.Informational {
		if f.Name == "Odd" && f.SeverityText != "Severe" {
			t.Errorf("expected original label to survive, got %q", f.SeverityText)
		}
	}
}

// TestCanonicalizeRequiredFields tests that records missing host or name
// are dropped entirely.
func TestCanonicalizeRequiredFields(t *testing.T) {
	t.Parallel()

	records := []model.RawRecord{
		{model.ColumnHost: "", model.ColumnName: "SQLi", model.ColumnRisk: "High"},
		{model.ColumnHost: "h1", model.ColumnName: "", model.ColumnRisk: "High"},
		{model.ColumnHost: "h1", model.ColumnName: "Valid", model.ColumnRisk: "High"},
	}

	result := New().Canonicalize(records, fullCaps())

	if result.Retained != 1 {
		t.Fatalf("expected 1 retained finding, got %d", result.Retained)
	}
	if len(result.Informational) != 0 {
		t.Errorf("expected rows without required fields to be dropped, not informational")
	}
	if result.Discarded != 2 {
		t.Errorf("expected 2 discarded records, got %d", result.Discarded)
	}
}

// TestDeriveCVSS tests the v3-then-v2 fallback chain, including the
// testable property that an unparseable v3 cell with v2 "6.5" yields 6.5.
func TestDeriveCVSS(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		v3       string
		v2       string
		expected float64
		has      bool
	}{
		{"v3 preferred", "9.8", "7.5", 9.8, true},
		{"fallback to v2", "not-a-number", "6.5", 6.5, true},
		{"blank v3 falls back", "", "4.3", 4.3, true},
		{"both unparseable", "high", "severe", 0, false},
		{"both blank", "", "", 0, false},
		{"out of range resolves unset", "99", "", 0, false},
		{"whitespace tolerated", " 7.2 ", "", 7.2, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			record := model.RawRecord{
				model.ColumnHost:   "h1",
				model.ColumnName:   "finding",
				model.ColumnRisk:   "High",
				model.ColumnCVSSv3: tc.v3,
				model.ColumnCVSSv2: tc.v2,
			}

			result := New().Canonicalize([]model.RawRecord{record}, fullCaps())
			if len(result.Findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(result.Findings))
			}

			f := result.Findings[0]
			if f.HasCVSS != tc.has {
				t.Fatalf("HasCVSS = %v, expected %v", f.HasCVSS, tc.has)
			}
			if tc.has && f.CVSS != tc.expected {
				t.Errorf("CVSS = %v, expected %v", f.CVSS, tc.expected)
			}
		})
	}
}

// TestCanonicalizeTextCleaning tests quote stripping, line-break
// collapsing, and description truncation.
func TestCanonicalizeTextCleaning(t *testing.T) {
	t.Parallel()

	longDescription := strings.Repeat("word ", 150) // 750 chars once collapsed

	records := []model.RawRecord{
		{
			model.ColumnHost:        ` 10.0.0.1 `,
			model.ColumnName:        `"Quoted Finding"`,
			model.ColumnRisk:        "Low",
			model.ColumnSynopsis:    "  padded  ",
			model.ColumnDescription: "line one\n\nline two\nline three",
			model.ColumnSolution:    "upgrade\nnow",
		},
		{
			model.ColumnHost:        "10.0.0.2",
			model.ColumnName:        "Long",
			model.ColumnRisk:        "Low",
			model.ColumnDescription: longDescription,
		},
	}

	result := New().Canonicalize(records, fullCaps())
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(result.Findings))
	}

	f := result.Findings[0]
	if f.Host != "10.0.0.1" {
		t.Errorf("expected trimmed host, got %q", f.Host)
	}
	if f.Name != "Quoted Finding" {
		t.Errorf("expected quotes stripped, got %q", f.Name)
	}
	if f.Synopsis != "padded" {
		t.Errorf("expected trimmed synopsis, got %q", f.Synopsis)
	}
	if f.Description != "line one line two line three" {
		t.Errorf("expected collapsed description, got %q", f.Description)
	}
	if f.Solution != "upgrade now" {
		t.Errorf("expected collapsed solution, got %q", f.Solution)
	}

	long := result.Findings[1]
	if !strings.HasSuffix(long.Description, "...") {
		t.Error("expected truncated description to end with ellipsis")
	}
	if got := len([]rune(long.Description)); got != DefaultDescriptionLimit+3 {
		t.Errorf("expected %d chars, got %d", DefaultDescriptionLimit+3, got)
	}
}

// TestCanonicalizeWithoutCVSSColumns tests that absent score columns leave
// every finding unscored rather than failing.
func TestCanonicalizeWithoutCVSSColumns(t *testing.T) {
	t.Parallel()

	caps := model.DetectCapabilities([]string{model.ColumnHost, model.ColumnName, model.ColumnRisk})
	records := []model.RawRecord{
		{model.ColumnHost: "h1", model.ColumnName: "f", model.ColumnRisk: "High"},
	}

	result := New().Canonicalize(records, caps)
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if result.Findings[0].HasCVSS {
		t.Error("expected no derived score without score columns")
	}
}

// TestWithDescriptionLimit tests the configurable presentation budget.
func TestWithDescriptionLimit(t *testing.T) {
	t.Parallel()

	records := []model.RawRecord{
		{model.ColumnHost: "h1", model.ColumnName: "f", model.ColumnRisk: "Low",
			model.ColumnDescription: "abcdefghij"},
	}

	result := New(WithDescriptionLimit(4)).Canonicalize(records, fullCaps())
	if got := result.Findings[0].Description; got != "abcd..." {
		t.Errorf("expected %q, got %q", "abcd...", got)
	}
}
