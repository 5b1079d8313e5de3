// Package stats computes the aggregate statistics snapshot from the
// canonical finding set.
//
// All rankings are computed in one deterministic pass: counting follows
// canonical order, and ties in the top-N rankings are broken by first
// encounter, so repeated runs over identical input produce byte-identical
// output. The resulting SummaryStatistics value is immutable by
// convention; downstream consumers only read it.
package stats
