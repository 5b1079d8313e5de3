// Package ingest reads scanner CSV exports into raw records.
//
// The loader handles the messy parts of real exports: unknown text
// encodings (tried in a fixed preference order), padded header cells,
// entirely empty rows, and purely informational finding titles that would
// otherwise pollute host and port statistics.
//
// Loading is the only stage that can fail a run: if no supported encoding
// yields parseable tabular text, Load returns an *IngestError and no
// partial result. Everything downstream degrades gracefully instead.
package ingest
