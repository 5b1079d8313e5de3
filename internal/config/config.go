package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultOutputDir is where report files are written when no output
	// directory is given. A relative path keeps reports next to where the
	// user ran the tool.
	DefaultOutputDir = "reports"

	// DefaultPrefix is the leading component of generated report file names.
	DefaultPrefix = "scan_report"

	// DefaultFormats is the format list used when none is specified.
	DefaultFormats = "csv"

	// DefaultBatchSize of 4 concurrent files balances throughput with
	// memory usage; each file is held fully in memory while processed.
	DefaultBatchSize = 4

	// DefaultServerAddr is the listen address for the upload portal.
	DefaultServerAddr = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "scanbrief"
)

// Config holds all configuration options for report generation.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// Inputs is the list of export files to process.
	// Must contain at least one path.
	Inputs []string

	// OutputDir is the directory report files are written to.
	// Created automatically if it does not exist.
	OutputDir string

	// Prefix is the leading component of generated report file names.
	Prefix string

	// Formats is the comma-separated output format list.
	// Accepted values: csv, markdown, html, json, all.
	Formats string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// BatchSize is the number of files processed concurrently when more
	// than one input is given.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .scanbrief in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	// Populated by LoadConfigFile; nil when no file was found.
	FileConfig *File

	// DescriptionLimit caps the finding description length in characters.
	// 0 keeps the built-in default.
	DescriptionLimit int

	// ExtraDenylist adds site-specific informational titles to the
	// built-in noise denylist.
	ExtraDenylist []string

	// DBDir is the directory path for storing the run-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveHistory indicates whether completed runs are recorded in the
	// history database. Disabled by the --no-history flag.
	SaveHistory bool

	// ServerAddr is the listen address for the upload portal.
	ServerAddr string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		Prefix:      DefaultPrefix,
		Formats:     DefaultFormats,
		BatchSize:   DefaultBatchSize,
		DBDir:       XDGDataDir(),
		SaveHistory: true,
		ServerAddr:  DefaultServerAddr,
	}
}

// ApplyFile folds settings from the loaded config file into the Config.
// Flag values already set by the user keep precedence; the file only
// fills fields still at their defaults.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.FileConfig = f

	if c.OutputDir == DefaultOutputDir && f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if c.Prefix == DefaultPrefix && f.Prefix != "" {
		c.Prefix = f.Prefix
	}
	if c.Formats == DefaultFormats && f.Formats != "" {
		c.Formats = f.Formats
	}
	if c.BatchSize == DefaultBatchSize && f.BatchSize > 0 {
		c.BatchSize = f.BatchSize
	}
	if c.DescriptionLimit == 0 && f.DescriptionLimit > 0 {
		c.DescriptionLimit = f.DescriptionLimit
	}
	c.ExtraDenylist = append(c.ExtraDenylist, f.Denylist...)
}

// XDGDataDir returns the XDG data directory for scanbrief.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/scanbrief
// On macOS: ~/Library/Application Support/scanbrief
// On Windows: %LOCALAPPDATA%\scanbrief
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scanbrief.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for scanbrief.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any processing begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.DescriptionLimit < 0 {
		return ErrInvalidDescriptionLimit
	}

	if c.Formats == "" {
		return ErrNoFormats
	}

	return nil
}
