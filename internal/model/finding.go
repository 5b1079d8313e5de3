package model

// Scanner export column names referenced by the pipeline.
// Header cells are whitespace-trimmed at load time, so lookups against
// these constants are exact.
const (
	ColumnHost        = "Host"
	ColumnPort        = "Port"
	ColumnProtocol    = "Protocol"
	ColumnName        = "Name"
	ColumnRisk        = "Risk"
	ColumnCVSSv3      = "CVSS v3.0 Base Score"
	ColumnCVSSv2      = "CVSS v2.0 Base Score"
	ColumnCVE         = "CVE"
	ColumnSynopsis    = "Synopsis"
	ColumnDescription = "Description"
	ColumnSolution    = "Solution"
)

// RawRecord is one export row as originally written by the scanner:
// a mapping from trimmed column name to the raw cell value.
// RawRecords are ephemeral; they exist only between loading and
// canonicalization.
type RawRecord map[string]string

// Empty reports whether every field of the record is blank.
// Entirely empty rows are structural noise and are dropped at load time.
func (r RawRecord) Empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

// Finding is one canonicalized security issue detected on a
// host/port/protocol combination. All text fields are trimmed, quote-stripped,
// and free of embedded line breaks; Description is capped for presentation.
//
// Invariant: every Finding in a canonical set has a severity in
// {Critical, High, Medium, Low}. Informational rows are kept in a separate
// list on the ScanReport and never mix with canonical findings.
type Finding struct {
	// Host is the target identifier (IP address or hostname). Required.
	Host string `json:"host"`

	// Port is the affected port as exported by the scanner. Optional;
	// kept as a string because exports mix "0", "443", and empty values.
	Port string `json:"port,omitempty"`

	// Protocol is the transport protocol (tcp, udp). Optional.
	Protocol string `json:"protocol,omitempty"`

	// Name is the finding title. Required; also serves as the grouping
	// key for the top-vulnerabilities ranking.
	Name string `json:"name"`

	// Severity is the canonical risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity label for serialization.
	SeverityText string `json:"severity_text"`

	// CVSS is the unified base score derived from the v3.0 field with
	// fallback to v2.0. Only meaningful when HasCVSS is true.
	CVSS float64 `json:"cvss,omitempty"`

	// HasCVSS reports whether a numeric base score could be derived.
	// A score that fails parsing resolves to unset, never to zero.
	HasCVSS bool `json:"has_cvss"`

	// CVE is the associated CVE identifier, if any.
	CVE string `json:"cve,omitempty"`

	// Synopsis is the scanner's one-line summary.
	Synopsis string `json:"synopsis,omitempty"`

	// Description is the full description, line breaks collapsed and
	// truncated to the presentation budget.
	Description string `json:"description,omitempty"`

	// Solution is the remediation guidance, line breaks collapsed.
	Solution string `json:"solution,omitempty"`
}

// CVSSString returns the derived score formatted for display,
// or "N/A" when no score could be derived.
func (f Finding) CVSSString() string {
	if !f.HasCVSS {
		return "N/A"
	}
	return FormatScore(f.CVSS)
}
