// Package report renders completed scan reports in the supported output
// formats: CSV, Markdown, HTML, and JSON.
//
// Stream-oriented writers implement the Writer interface and render to an
// io.Writer. The Exporter composes them to produce timestamped report
// files on disk, one bundle per run.
package report
