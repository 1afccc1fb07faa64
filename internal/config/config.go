package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the resolved fitsdiag configuration.
type Config struct {
	Inputs          []string
	MaxHeaderBlocks int
	StrictKeywords  bool
	Workers         int
	LogLevel        string
	LogFormat       string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxHeaderBlocks: 1024,
		Workers:         runtime.NumCPU(),
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// hclFile is the decoding target for a configuration file.
type hclFile struct {
	Inputs  []string   `hcl:"inputs,optional"`
	Workers *int       `hcl:"workers,optional"`
	Reader  *hclReader `hcl:"reader,block"`
	Log     *hclLog    `hcl:"log,block"`
}

type hclReader struct {
	MaxHeaderBlocks *int  `hcl:"max_header_blocks,optional"`
	StrictKeywords  *bool `hcl:"strict_keywords,optional"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load reads and decodes the HCL file at path on top of Default.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source on top of Default. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var raw hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := Default()
	cfg.Inputs = raw.Inputs
	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}
	if r := raw.Reader; r != nil {
		if r.MaxHeaderBlocks != nil {
			cfg.MaxHeaderBlocks = *r.MaxHeaderBlocks
		}
		if r.StrictKeywords != nil {
			cfg.StrictKeywords = *r.StrictKeywords
		}
	}
	if l := raw.Log; l != nil {
		if l.Level != nil {
			cfg.LogLevel = *l.Level
		}
		if l.Format != nil {
			cfg.LogFormat = *l.Format
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.MaxHeaderBlocks <= 0 {
		errs = append(errs, fmt.Errorf("max_header_blocks must be positive, got %d", c.MaxHeaderBlocks))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}
