// Package database provides SQLite-based storage for completed report
// runs. Each run is stored as serialized JSON plus a few indexed metadata
// columns, enabling run history listings without deserializing full
// reports.
//
// History storage is best-effort by design: a failed save is logged and
// never fails the report run that produced it.
package database
