package model

// Capabilities records which optional export columns are present in the
// loaded file. It is computed once from the header row at load time, and
// every downstream stage branches on these flags instead of re-checking
// raw column membership.
//
// A missing column is logged, not treated as an error: the dependent feature
// (CVSS statistics, port rankings, ...) is simply omitted from the output.
type Capabilities struct {
	// HasHost reports whether the Host column is present.
	// Without it no row can be retained as a finding.
	HasHost bool `json:"has_host"`

	// HasPort reports whether the Port column is present.
	// Controls port rankings and the host-summary port list.
	HasPort bool `json:"has_port"`

	// HasProtocol reports whether the Protocol column is present.
	HasProtocol bool `json:"has_protocol"`

	// HasName reports whether the Name column is present.
	// Without it no row can be retained as a finding.
	HasName bool `json:"has_name"`

	// HasRisk reports whether the Risk (severity label) column is present.
	HasRisk bool `json:"has_risk"`

	// HasCVSSv3 reports whether the CVSS v3.0 base score column is present.
	HasCVSSv3 bool `json:"has_cvss_v3"`

	// HasCVSSv2 reports whether the CVSS v2.0 base score column is present.
	HasCVSSv2 bool `json:"has_cvss_v2"`

	// HasCVE reports whether the CVE column is present.
	HasCVE bool `json:"has_cve"`

	// HasSynopsis reports whether the Synopsis column is present.
	HasSynopsis bool `json:"has_synopsis"`

	// HasDescription reports whether the Description column is present.
	HasDescription bool `json:"has_description"`

	// HasSolution reports whether the Solution column is present.
	HasSolution bool `json:"has_solution"`
}

// DetectCapabilities builds a Capabilities record from the trimmed header
// row of an export file.
func DetectCapabilities(headers []string) Capabilities {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	return Capabilities{
		HasHost:        present[ColumnHost],
		HasPort:        present[ColumnPort],
		HasProtocol:    present[ColumnProtocol],
		HasName:        present[ColumnName],
		HasRisk:        present[ColumnRisk],
		HasCVSSv3:      present[ColumnCVSSv3],
		HasCVSSv2:      present[ColumnCVSSv2],
		HasCVE:         present[ColumnCVE],
		HasSynopsis:    present[ColumnSynopsis],
		HasDescription: present[ColumnDescription],
		HasSolution:    present[ColumnSolution],
	}
}

// HasCVSS reports whether at least one CVSS base score column is present.
func (c Capabilities) HasCVSS() bool {
	return c.HasCVSSv3 || c.HasCVSSv2
}

// MissingColumns lists the referenced columns absent from the export.
// Used for warning logs at load time.
func (c Capabilities) MissingColumns() []string {
	var missing []string
	checks := []struct {
		ok   bool
		name string
	}{
		{c.HasHost, ColumnHost},
		{c.HasPort, ColumnPort},
		{c.HasProtocol, ColumnProtocol},
		{c.HasName, ColumnName},
		{c.HasRisk, ColumnRisk},
		{c.HasCVSSv3, ColumnCVSSv3},
		{c.HasCVSSv2, ColumnCVSSv2},
		{c.HasCVE, ColumnCVE},
		{c.HasSynopsis, ColumnSynopsis},
		{c.HasDescription, ColumnDescription},
		{c.HasSolution, ColumnSolution},
	}
	for _, check := range checks {
		if !check.ok {
			missing = append(missing, check.name)
		}
	}
	return missing
}
