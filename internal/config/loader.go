package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".scanbrief"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML project configuration.
// Every field is optional; unset fields keep the built-in defaults.
type File struct {
	// OutputDir is the report output directory.
	OutputDir string `yaml:"output_dir"`

	// Prefix is the report file name prefix.
	Prefix string `yaml:"prefix"`

	// Formats is the comma-separated output format list.
	Formats string `yaml:"formats"`

	// BatchSize is the concurrent file count for batch processing.
	BatchSize int `yaml:"batch_size"`

	// DescriptionLimit caps finding description length in characters.
	DescriptionLimit int `yaml:"description_limit"`

	// Denylist adds informational finding titles to drop at load time,
	// on top of the built-in list.
	Denylist []string `yaml:"denylist"`
}

// LoadConfigFile loads project configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .scanbrief in the current directory
// 3. Look for .scanbrief in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
