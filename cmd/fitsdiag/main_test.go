package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/fits"
)

func writeFile(t *testing.T, path string, hdus ...*fits.HeaderBuilder) {
	t.Helper()
	var buf bytes.Buffer
	for _, b := range hdus {
		h, err := b.Build()
		require.NoError(t, err)
		data := make([]byte, fitsDataLen(t, h))
		require.NoError(t, fits.Write(&buf, h, data))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func fitsDataLen(t *testing.T, h *fits.Header) int {
	t.Helper()
	n, err := h.Int("NAXIS")
	require.NoError(t, err)
	if n == 0 {
		return 0
	}
	bitpix, err := h.Int("BITPIX")
	require.NoError(t, err)
	size := abs(bitpix) / 8
	for i := 1; i <= int(n); i++ {
		axis, err := h.Int("NAXIS" + strconv.Itoa(i))
		require.NoError(t, err)
		size *= axis
	}
	return int(size)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRunGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "one.fits"),
		fits.NewPrimaryHeader(fits.Int16, 4, 2),
		fits.NewImageHeader(fits.Float32, 3).Set("EXTNAME", fits.StringValue("SCI"), ""))
	writeFile(t, filepath.Join(dir, "b", "c", "two.fits"),
		fits.NewPrimaryHeader(fits.Uint8))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr,
		[]string{"-workers", "2", filepath.Join(dir, "**", "*.fits")})
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "one.fits")
	assert.Contains(t, out, "two.fits")
	assert.Contains(t, out, `HDU 1 image "SCI":`)
	assert.Contains(t, out, "Axes: [4 2]")
	assert.Less(t, strings.Index(out, "one.fits"), strings.Index(out, "two.fits"))
}

func TestRunReportsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.fits")
	writeFile(t, good, fits.NewPrimaryHeader(fits.Uint8))
	bad := filepath.Join(dir, "bad.fits")
	require.NoError(t, os.WriteFile(bad, bytes.Repeat([]byte("X"), 2880), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, []string{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files")
	assert.Contains(t, stdout.String(), "ERROR")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.fits")
	writeFile(t, input, fits.NewPrimaryHeader(fits.Int32, 2))

	cfg := filepath.Join(dir, "fitsdiag.hcl")
	src := "inputs = [\"" + filepath.ToSlash(input) + "\"]\n" +
		"log {\n  level = \"debug\"\n  format = \"json\"\n}\n"
	require.NoError(t, os.WriteFile(cfg, []byte(src), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), &stdout, &stderr, []string{"-config", cfg}))
	assert.Contains(t, stdout.String(), "BITPIX: 32")
	assert.Contains(t, stderr.String(), `"msg":"constructed HDU"`)
}

func TestRunNoInputs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, nil)
	assert.Error(t, err)
}
