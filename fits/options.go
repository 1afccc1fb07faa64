package fits

import (
	"io"
	"log/slog"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/header"
)

// Option configures how a file is read.
type Option func(*options)

type options struct {
	maxBlocks int
	logger    *slog.Logger
	strict    bool
}

func defaultOptions() *options {
	return &options{
		maxBlocks: header.DefaultMaxBlocks,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (o *options) headerOptions() header.Options {
	return header.Options{
		MaxBlocks: o.maxBlocks,
		Lexer:     card.Lexer{Strict: o.strict},
		Logger:    o.logger,
	}
}

// WithMaxHeaderBlocks bounds the number of 2880-byte blocks scanned for the
// END card of one header. Non-positive values are ignored.
func WithMaxHeaderBlocks(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBlocks = n
		}
	}
}

// WithLogger sets the logger that receives HDU construction events and
// tolerated deviations. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictKeywords rejects keywords containing lowercase letters instead
// of accepting them.
func WithStrictKeywords() Option {
	return func(o *options) {
		o.strict = true
	}
}
