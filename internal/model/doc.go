// Package model defines the core data structures used throughout scanbrief.
//
// This package contains the following main types:
//   - RawRecord: One scanner export row before canonicalization
//   - Finding: A canonicalized security finding
//   - SummaryStatistics: Aggregate statistics computed from the canonical set
//   - ScanReport: The per-run container owning findings, statistics, and views
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (ingest, canonical, stats, view, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
