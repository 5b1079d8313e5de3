package model

// Severity represents the risk level assigned to a finding by the scanner.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed. The numeric value doubles as the
// weight used for the aggregate risk score (Low=1 ... Critical=4).
type Severity int

const (
	// SeverityNone indicates an informational row with no security impact.
	// Rows with this severity never enter the canonical finding set.
	SeverityNone Severity = iota

	// SeverityLow indicates minor issues that can be addressed when convenient.
	SeverityLow

	// SeverityMedium indicates issues to address in the next maintenance window.
	SeverityMedium

	// SeverityHigh indicates issues that should be addressed as soon as possible.
	SeverityHigh

	// SeverityCritical indicates issues requiring immediate action.
	SeverityCritical
)

// severityLabels maps the canonical scanner labels to severity levels.
// The comparison is case-sensitive because Nessus exports use exactly
// these spellings; anything else is an out-of-set label.
var severityLabels = map[string]Severity{
	"None":     SeverityNone,
	"Low":      SeverityLow,
	"Medium":   SeverityMedium,
	"High":     SeverityHigh,
	"Critical": SeverityCritical,
}

// SeveritiesDescending lists the reportable severity levels from most to
// least severe. Used wherever output must be ordered Critical -> Low.
var SeveritiesDescending = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// String returns the human-readable representation of the severity level.
// This matches the scanner's own labels so round-tripping is lossless.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "None"
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Weight returns the contribution of one finding at this severity to the
// aggregate risk score: Critical=4, High=3, Medium=2, Low=1, None=0.
func (s Severity) Weight() int {
	if s < SeverityNone || s > SeverityCritical {
		return 0
	}
	return int(s)
}

// Reportable reports whether findings at this severity belong in the
// canonical finding set. Only Critical, High, Medium, and Low qualify;
// None and unrecognized labels are excluded.
func (s Severity) Reportable() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

// ParseSeverity maps a raw severity label to a Severity.
// The label must already be whitespace-trimmed by the caller.
// The second return value is false for labels outside the known set.
func ParseSeverity(label string) (Severity, bool) {
	s, ok := severityLabels[label]
	return s, ok
}
