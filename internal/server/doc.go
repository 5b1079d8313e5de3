// Package server implements the report upload portal: a small HTTP
// service that accepts a scanner CSV export, runs the report pipeline on
// it, and returns the generated report files as a zip bundle.
//
// Each upload is processed in its own temp directory so concurrent
// requests never share state; the directory is removed when the response
// is written.
package server
