// Package view assembles the three analysis-ready projections from the
// canonical finding set and the aggregate statistics: the executive
// summary, the per-host rollup, and the fully sorted detailed-findings
// table.
//
// Views are pure projections: nothing in this package mutates the
// canonical set or the statistics snapshot, and every view is computed
// fresh per run. Renderers in the report package map these views onto
// concrete output formats.
package view
