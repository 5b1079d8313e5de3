// Package pipeline orchestrates report generation as an ordered sequence
// of steps: load, canonicalize, aggregate, and build views. Each run owns
// a single ScanReport that the steps fill in turn.
//
// The BatchProcessor runs the same pipeline over many export files
// concurrently with a bounded goroutine count.
package pipeline
