// Package config defines the runtime configuration for report generation
// and the YAML project file that can override its defaults. Configuration
// is populated from CLI flags and passed by value through the application
// rather than held in global state.
package config
