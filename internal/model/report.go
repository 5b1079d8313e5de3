package model

import "time"

// Diagnostics exposes the record counts observed at each filtering step so
// callers can detect an unexpectedly empty result. The three counts
// correspond to the raw input, the state after informational-title removal,
// and the canonical set after severity filtering.
type Diagnostics struct {
	// TotalRecords is the number of data rows read from the input.
	TotalRecords int `json:"total_records"`

	// AfterNoiseFilter is the count after dropping denylisted
	// informational titles and entirely empty rows.
	AfterNoiseFilter int `json:"after_noise_filter"`

	// Retained is the size of the canonical finding set after
	// severity filtering.
	Retained int `json:"retained"`

	// Discarded is the number of cleaned records excluded by the
	// severity filter (informational or unrecognized labels).
	Discarded int `json:"discarded"`
}

// ScanReport is the per-run container for everything one pipeline run
// produces. Each run owns its own ScanReport; nothing is shared between
// concurrent runs.
//
// Design decision: We use a single container passed through the pipeline
// stages rather than threading individual values because it simplifies
// serialization, database storage, and the stage interface. Stages only
// ever append to it; earlier stages' output is never mutated.
type ScanReport struct {
	// SourceFile is the path or name of the ingested export file.
	SourceFile string `json:"source_file"`

	// GeneratedAt is when the pipeline run started.
	GeneratedAt time.Time `json:"generated_at"`

	// Capabilities records which export columns were present.
	Capabilities Capabilities `json:"capabilities"`

	// Diagnostics holds the per-step record counts.
	Diagnostics Diagnostics `json:"diagnostics"`

	// Records is the raw record sequence between loading and
	// canonicalization. Cleared after canonicalization; it is excluded
	// from JSON because it duplicates the finding data.
	Records []RawRecord `json:"-"`

	// Findings is the canonical finding set. Every entry has a severity
	// in {Critical, High, Medium, Low}.
	Findings []Finding `json:"findings"`

	// Informational holds the cleaned records excluded by the severity
	// filter. Kept for the informational export sheet and for the
	// detailed view's empty-set fallback.
	Informational []Finding `json:"informational,omitempty"`

	// Stats is the aggregate snapshot. Immutable once set.
	Stats *SummaryStatistics `json:"stats,omitempty"`

	// Views assembled by the view builder.
	ExecutiveSummary *ExecutiveSummary `json:"executive_summary,omitempty"`
	HostSummary      *HostSummary      `json:"host_summary,omitempty"`
	DetailedFindings *DetailedView     `json:"detailed_findings,omitempty"`

	// Error records a non-fatal anomaly message for the run, if any.
	Error string `json:"error,omitempty"`
}

// NewScanReport creates an empty report for the given source file.
func NewScanReport(sourceFile string) *ScanReport {
	return &ScanReport{
		SourceFile:  sourceFile,
		GeneratedAt: time.Now(),
	}
}

// HasFindings reports whether the canonical set is non-empty.
func (r *ScanReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// FindingsBySeverity returns the canonical findings at the given severity,
// preserving canonical order.
func (r *ScanReport) FindingsBySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
