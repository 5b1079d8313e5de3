// Package log provides logging helpers built on top of the standard slog
// package.
//
// Scanner exports carry multi-kilobyte description and solution fields;
// any of them can end up in a log attribute when a record is reported.
// The TrimHandler caps oversized string attributes so one noisy record
// cannot flood the log, while keeping enough of the value to identify it.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("record discarded",
//	    "description", longText, // capped at the configured limit
//	)
//
//	slog.SetDefault(logger)
package log
