package canonical

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/scanbrief/scanbrief/internal/model"
)

// DefaultDescriptionLimit is the presentation budget for the Description
// field, in characters. Longer descriptions are truncated with an ellipsis
// marker after line-break collapsing.
const DefaultDescriptionLimit = 500

// Result is the canonicalizer's output with the retained-vs-discarded
// counts required for diagnostics.
type Result struct {
	// Findings is the canonical set. Every entry has a reportable severity.
	Findings []model.Finding

	// Informational holds cleaned records excluded by the severity filter:
	// explicit "None" labels and unrecognized labels alike.
	Informational []model.Finding

	// Retained is len(Findings).
	Retained int

	// Discarded is the number of input records not in the canonical set,
	// including rows missing a host or finding name entirely.
	Discarded int
}

// Canonicalizer maps raw records to canonical findings.
// A Canonicalizer is stateless between calls and safe to reuse.
type Canonicalizer struct {
	// descriptionLimit caps the Description field length.
	descriptionLimit int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer)

// WithDescriptionLimit overrides the description presentation budget.
// Values below 1 keep the default.
func WithDescriptionLimit(limit int) Option {
	return func(c *Canonicalizer) {
		if limit > 0 {
			c.descriptionLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the canonicalizer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canonicalizer) {
		c.logger = logger
	}
}

// New creates a Canonicalizer with default settings.
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{
		descriptionLimit: DefaultDescriptionLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Canonicalize maps each raw record to zero or one finding.
// The input slice is consumed read-only; records never outlive this call.
func (c *Canonicalizer) Canonicalize(records []model.RawRecord, caps model.Capabilities) *Result {
	result := &Result{}

	for _, record := range records {
		finding, ok := c.canonicalizeRecord(record, caps)
		if !ok {
			result.Discarded++
			continue
		}

		if finding.Severity.Reportable() {
			result.Findings = append(result.Findings, finding)
			continue
		}

		result.Informational = append(result.Informational, finding)
		result.Discarded++
	}

	result.Retained = len(result.Findings)

	c.logger.Info("canonicalized records",
		"input", len(records),
		"retained", result.Retained,
		"discarded", result.Discarded,
	)

	return result
}

// canonicalizeRecord cleans one record into a finding.
// It returns false when the record lacks the required host or name.
func (c *Canonicalizer) canonicalizeRecord(record model.RawRecord, caps model.Capabilities) (model.Finding, bool) {
	host := cleanText(record[model.ColumnHost])
	name := cleanText(record[model.ColumnName])
	if host == "" || name == "" {
		return model.Finding{}, false
	}

	label := strings.TrimSpace(record[model.ColumnRisk])
	severity, known := model.ParseSeverity(label)
	if !known {
		severity = model.SeverityNone
	}

	finding := model.Finding{
		Host:         host,
		Port:         cleanText(record[model.ColumnPort]),
		Protocol:     cleanText(record[model.ColumnProtocol]),
		Name:         name,
		Severity:     severity,
		SeverityText: severity.String(),
		CVE:          cleanText(record[model.ColumnCVE]),
		Synopsis:     cleanText(record[model.ColumnSynopsis]),
		Description:  truncate(collapseLines(cleanText(record[model.ColumnDescription])), c.descriptionLimit),
		Solution:     collapseLines(cleanText(record[model.ColumnSolution])),
	}

	// Keep the scanner's own spelling for out-of-set labels so the
	// informational sheet shows what the export actually said.
	if !known && label != "" {
		finding.SeverityText = label
	}

	if caps.HasCVSS() {
		finding.CVSS, finding.HasCVSS = deriveCVSS(record, caps)
	}

	return finding, true
}

// deriveCVSS resolves the unified base score: the v3.0 column wins, the
// v2.0 column is the fallback. Cells that fail numeric parsing or fall
// outside [0, 10] resolve to unset; they never raise.
func deriveCVSS(record model.RawRecord, caps model.Capabilities) (float64, bool) {
	if caps.HasCVSSv3 {
		if v, ok := parseScore(record[model.ColumnCVSSv3]); ok {
			return v, true
		}
	}
	if caps.HasCVSSv2 {
		if v, ok := parseScore(record[model.ColumnCVSSv2]); ok {
			return v, true
		}
	}
	return 0, false
}

// parseScore parses one score cell. Blank and non-numeric cells resolve
// to unset without raising.
func parseScore(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || v < 0 || v > 10 {
		return 0, false
	}
	return v, true
}

// cleanText trims surrounding whitespace and strips literal double quotes,
// which exports sometimes double-escape into cell values.
func cleanText(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

// collapseLines collapses embedded line breaks (and any run of whitespace)
// to single spaces, preserving word boundaries.
func collapseLines(s string) string {
	if !strings.ContainsAny(s, "\n\r\t") && !strings.Contains(s, "  ") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps s at limit characters, appending an ellipsis marker when
// truncation occurred. Counting is rune-based so multi-byte characters
// are never split.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
