// Package merge combines multiple raw .nessus XML exports into one file
// by collecting every ReportHost element under a single Report. The first
// input supplies the policy section and the report name; later inputs
// contribute only their hosts.
package merge
