package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds app configuration
type Config struct {
	// InputFile is the archive to read (unpack, list) or the directory to
	// import (pack)
	InputFile string `mapstructure:"input"`

	// OutputFile is the archive to write (pack) or the directory to
	// extract into (unpack)
	OutputFile string `mapstructure:"output"`

	// BackslashPaths writes '\' separators into built archives,
	// which is what the original engines expect
	BackslashPaths bool `mapstructure:"backslash_paths"`

	// Workers bounds how many files are read or written at once
	Workers int `mapstructure:"workers"`

	JSON     bool `mapstructure:"json"`
	Progress bool `mapstructure:"progress"`

	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}

// Load unmarshals v into a Config and fills in defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q (text, json)", cfg.LogFormat)
	}

	return cfg, nil
}
