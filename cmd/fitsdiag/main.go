// Diagnostic tool for analyzing FITS files
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/yargevad/filepathx"
	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-fits/fits"
	"github.com/robert-malhotra/go-fits/internal/config"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fitsdiag:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("fitsdiag", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: fitsdiag [flags] <file.fits|glob>...")
		fs.PrintDefaults()
	}

	cfgPath := fs.String("config", "", "HCL configuration file")
	workers := fs.Int("workers", 0, "files inspected in parallel")
	maxBlocks := fs.Int("max-header-blocks", 0, "blocks scanned for END before giving up")
	strict := fs.Bool("strict", false, "reject keywords with lowercase letters")
	level := fs.String("log-level", "", "debug, info, warn or error")
	format := fs.String("log-format", "", "text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "max-header-blocks":
			cfg.MaxHeaderBlocks = *maxBlocks
		case "strict":
			cfg.StrictKeywords = *strict
		case "log-level":
			cfg.LogLevel = *level
		case "log-format":
			cfg.LogFormat = *format
		}
	})
	cfg.Inputs = append(cfg.Inputs, fs.Args()...)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Inputs) == 0 {
		fs.Usage()
		return errors.New("no input files")
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	paths, err := expand(cfg.Inputs)
	if err != nil {
		return err
	}
	logger.Debug("inspecting files", "count", len(paths), "workers", cfg.Workers)

	opts := []fits.Option{
		fits.WithLogger(logger),
		fits.WithMaxHeaderBlocks(cfg.MaxHeaderBlocks),
	}
	if cfg.StrictKeywords {
		opts = append(opts, fits.WithStrictKeywords())
	}

	reports := make([]bytes.Buffer, len(paths))
	failed := make([]bool, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			failed[i] = !analyze(&reports[i], path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var bad int
	for i := range reports {
		if _, err := reports[i].WriteTo(stdout); err != nil {
			return err
		}
		if failed[i] {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d files have errors", bad, len(paths))
	}
	return nil
}

// expand resolves glob patterns, including "**", in order. A pattern
// without matches is kept as a literal path so that Open reports it.
func expand(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := filepathx.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler), nil
}

// analyze writes a report for one file and reports whether it was read
// without errors.
func analyze(w io.Writer, path string, opts []fits.Option) bool {
	fmt.Fprintf(w, "=== Analyzing %s ===\n\n", path)

	f, err := fits.Open(path, opts...)
	if err != nil {
		fmt.Fprintf(w, "ERROR: Failed to open file: %v\n\n", err)
		return false
	}
	defer f.Close()

	ok := true
	err = fits.Walk(f, func(i int, hdu *fits.HDU, err error) error {
		if err != nil {
			fmt.Fprintf(w, "HDU %d: ERROR %v\n", i, err)
			ok = false
			return nil
		}
		describe(w, hdu)
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "ERROR: walk: %v\n", err)
		ok = false
	}
	fmt.Fprintf(w, "\nHDUs: %d, state: %s\n\n", f.Len(), f.State())
	return ok
}

func describe(w io.Writer, hdu *fits.HDU) {
	name := hdu.Name()
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(w, "HDU %d %s %q:\n", hdu.Index(), hdu.Kind(), name)
	if hdu.Kind() == fits.KindUnknown {
		fmt.Fprintf(w, "  XTENSION: %s\n", hdu.Xtension())
	}
	fmt.Fprintf(w, "  BITPIX: %d\n", hdu.Bitpix())
	fmt.Fprintf(w, "  Axes: %v\n", hdu.Axes())
	fmt.Fprintf(w, "  Header: offset %d, %d blocks, %d cards\n",
		hdu.HeaderOffset(), hdu.HeaderBlocks(), hdu.Header().Len())
	fmt.Fprintf(w, "  Data: offset %d, %d bytes (%d padded)\n",
		hdu.DataOffset(), hdu.DataLength(), hdu.PaddedLength())

	switch hdu.Kind() {
	case fits.KindBinTable, fits.KindASCIITable:
		t, err := hdu.Table()
		if err != nil {
			fmt.Fprintf(w, "  Table: ERROR %v\n", err)
			return
		}
		names := make([]string, 0, t.NumCols())
		for _, c := range t.Columns() {
			names = append(names, fmt.Sprintf("%s(%s)", c.Name, c.Format))
		}
		fmt.Fprintf(w, "  Table: %d rows, columns %s\n", t.NumRows(), strings.Join(names, " "))
	case fits.KindPrimary, fits.KindImage:
		if hdu.IsRandomGroups() {
			groups, _ := hdu.Header().Int("GCOUNT")
			fmt.Fprintf(w, "  Random groups: %d\n", groups)
			return
		}
		img, err := hdu.Image()
		if err != nil {
			fmt.Fprintf(w, "  Image: ERROR %v\n", err)
			return
		}
		zero, scale, blank, hasBlank := img.Scaling()
		if zero != 0 || scale != 1 {
			fmt.Fprintf(w, "  Scaling: BZERO=%g BSCALE=%g\n", zero, scale)
		}
		if hasBlank {
			fmt.Fprintf(w, "  BLANK: %d\n", blank)
		}
	}
}
