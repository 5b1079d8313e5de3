package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, expected %q", c.OutputDir, DefaultOutputDir)
	}
	if c.Prefix != DefaultPrefix {
		t.Errorf("Prefix = %q, expected %q", c.Prefix, DefaultPrefix)
	}
	if c.Formats != DefaultFormats {
		t.Errorf("Formats = %q, expected %q", c.Formats, DefaultFormats)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, expected %d", c.BatchSize, DefaultBatchSize)
	}
	if !c.SaveHistory {
		t.Error("SaveHistory should default to true")
	}
	if !strings.HasSuffix(c.DBDir, AppName) {
		t.Errorf("DBDir = %q, expected to end with %q", c.DBDir, AppName)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			modify: func(c *Config) { c.Inputs = []string{"scan.csv"} },
		},
		{
			name:    "no inputs",
			modify:  func(c *Config) {},
			wantErr: ErrNoInput,
		},
		{
			name: "zero batch size",
			modify: func(c *Config) {
				c.Inputs = []string{"scan.csv"}
				c.BatchSize = 0
			},
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "negative description limit",
			modify: func(c *Config) {
				c.Inputs = []string{"scan.csv"}
				c.DescriptionLimit = -1
			},
			wantErr: ErrInvalidDescriptionLimit,
		},
		{
			name: "empty formats",
			modify: func(c *Config) {
				c.Inputs = []string{"scan.csv"}
				c.Formats = ""
			},
			wantErr: ErrNoFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewConfig()
			tt.modify(c)

			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("file fills defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.ApplyFile(&File{
			OutputDir:        "out",
			Prefix:           "acme",
			Formats:          "html,json",
			BatchSize:        8,
			DescriptionLimit: 200,
			Denylist:         []string{"Custom Banner"},
		})

		if c.OutputDir != "out" || c.Prefix != "acme" || c.Formats != "html,json" {
			t.Errorf("file values not applied: %+v", c)
		}
		if c.BatchSize != 8 || c.DescriptionLimit != 200 {
			t.Errorf("numeric file values not applied: %+v", c)
		}
		if len(c.ExtraDenylist) != 1 || c.ExtraDenylist[0] != "Custom Banner" {
			t.Errorf("ExtraDenylist = %v", c.ExtraDenylist)
		}
	})

	t.Run("flags keep precedence", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.OutputDir = "cli-dir"
		c.ApplyFile(&File{OutputDir: "file-dir"})

		if c.OutputDir != "cli-dir" {
			t.Errorf("OutputDir = %q, expected the flag value", c.OutputDir)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.ApplyFile(nil)
		if c.FileConfig != nil {
			t.Error("FileConfig should stay nil")
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := "output_dir: out\nformats: markdown\ndenylist:\n  - \"Custom Banner\"\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() = %v, expected nil", err)
		}
		if f.OutputDir != "out" || f.Formats != "markdown" {
			t.Errorf("loaded file = %+v", f)
		}
		if len(f.Denylist) != 1 {
			t.Errorf("Denylist = %v", f.Denylist)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfigFile() = %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("output_dir: [\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, expected %q", got, path)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("FindConfigFile() = %q, expected empty", got)
		}
	})
}
