package header

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/source"
)

// DefaultMaxBlocks bounds header scanning when no limit is configured.
const DefaultMaxBlocks = 1024

// Options controls header scanning.
type Options struct {
	// MaxBlocks is the number of 2880-byte blocks scanned before giving up
	// on finding END. Zero means DefaultMaxBlocks.
	MaxBlocks int
	Lexer     card.Lexer
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Read scans the header starting at off and returns it together with the
// number of blocks it occupies. It returns io.EOF when off is at the end
// of the source.
func Read(r *source.Reader, off int64, opts Options) (*Header, int, error) {
	maxBlocks := opts.MaxBlocks
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlocks
	}
	log := opts.logger()

	block := make([]byte, BlockSize)
	var cards []card.Card

	for b := 0; ; b++ {
		if b >= maxBlocks {
			return nil, b, &StructuralError{
				Kind:   MissingEnd,
				Offset: off,
				Detail: fmt.Sprintf("no END card within %d blocks", maxBlocks),
			}
		}

		boff := off + int64(b)*BlockSize
		n, err := r.ReadBlock(block, boff)
		if err != nil {
			return nil, b, err
		}
		if b == 0 && (n == 0 || (n == BlockSize && allZero(block))) {
			if n > 0 {
				log.Debug("treating zero-filled block as end of source", "offset", boff)
			}
			return nil, 0, io.EOF
		}
		switch {
		case n == 0:
			return nil, b, &StructuralError{
				Kind:   MissingEnd,
				Offset: off,
				Detail: fmt.Sprintf("source ended after %d header blocks", b),
			}
		case n < BlockSize:
			return nil, b, &StructuralError{
				Kind:   Misaligned,
				Offset: off,
				Detail: fmt.Sprintf("header block at offset %d has %d bytes, not %d", boff, n, BlockSize),
			}
		}

		for i := 0; i < CardsPerBlock; i++ {
			rec := block[i*card.Size : (i+1)*card.Size]
			c, err := opts.Lexer.Parse(rec)
			if err != nil {
				var le *card.LexError
				if errors.As(err, &le) {
					le.Base = boff + int64(i*card.Size)
				}
				return nil, b + 1, err
			}
			if kw := c.Keyword(); kw != strings.ToUpper(kw) {
				log.Warn("keyword contains lowercase letters", "keyword", kw, "offset", boff+int64(i*card.Size))
			}
			cards = append(cards, c)
			if c.IsEnd() {
				if rest := block[(i+1)*card.Size:]; !allBlank(rest) {
					log.Warn("ignoring non-blank cards after END", "offset", boff+int64((i+1)*card.Size))
				}
				h := New(cards)
				h.offset = off
				return h, b + 1, nil
			}
		}
	}
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func allBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}
