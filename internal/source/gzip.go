package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether prefix starts with the gzip member signature.
func IsGzip(prefix []byte) bool {
	return bytes.HasPrefix(prefix, gzipMagic)
}

// Gunzip inflates a gzip stream into memory.
func Gunzip(r io.Reader) (Memory, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return Memory(data), nil
}
