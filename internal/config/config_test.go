package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFull(t *testing.T) {
	src := `
inputs = ["data/**/*.fits", "one.fits.gz"]
workers = 3

reader {
  max_header_blocks = 64
  strict_keywords   = true
}

log {
  level  = "debug"
  format = "json"
}
`
	cfg, err := Parse([]byte(src), "full.hcl")
	require.NoError(t, err)

	want := Config{
		Inputs:          []string{"data/**/*.fits", "one.fits.gz"},
		MaxHeaderBlocks: 64,
		StrictKeywords:  true,
		Workers:         3,
		LogLevel:        "debug",
		LogFormat:       "json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`inputs = ["x.fits"]`), "min.hcl")
	require.NoError(t, err)

	want := Default()
	want.Inputs = []string{"x.fits"}
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `inputs = [`},
		{"unknown attribute", `colour = "blue"`},
		{"wrong type", `workers = "many"`},
		{"zero blocks", "reader {\n  max_header_blocks = 0\n}\n"},
		{"bad level", "log {\n  level = \"loud\"\n}\n"},
		{"bad format", "log {\n  format = \"xml\"\n}\n"},
		{"negative workers", `workers = -1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitsdiag.hcl")
	require.NoError(t, os.WriteFile(path, []byte("workers = 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
