// Package canonical turns raw export records into canonical findings.
//
// Canonicalization cleans text fields, enforces the severity enumeration,
// and derives one unified CVSS score per finding from the two possible
// source columns. Records whose severity falls outside
// {Critical, High, Medium, Low} are excluded from the canonical set but
// kept in a separate informational list for the detailed view's
// empty-set fallback and the informational export sheet.
//
// Canonicalization never fails a run: malformed score cells resolve to an
// unset score and missing columns simply leave the dependent field empty.
package canonical
