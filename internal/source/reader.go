package source

import (
	"errors"
	"io"
	"slices"
)

// Reader issues bounded, positioned reads against a provider.
// A Reader holds no cursor and is safe for concurrent use whenever the
// provider is.
type Reader struct {
	r io.ReaderAt
}

// NewReader creates a Reader over src.
func NewReader(src io.ReaderAt) *Reader {
	return &Reader{r: src}
}

// Size returns the provider length if it is known.
func (r *Reader) Size() (int64, bool) {
	return SizeOf(r.r)
}

// readChunk bounds each allocation when the provider length is unknown.
const readChunk = 1 << 20

// ReadExact reads exactly n bytes at off. A range past a provider of known
// length fails before anything is allocated.
func (r *Reader) ReadExact(off int64, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if size, ok := r.Size(); ok && (off > size || int64(n) > size-off) {
		return nil, &TruncatedError{Offset: off, Want: int64(n), Got: max(size-off, 0)}
	}
	if n <= readChunk {
		buf := make([]byte, n)
		if err := r.ReadInto(buf, off); err != nil {
			return nil, err
		}
		return buf, nil
	}

	var buf []byte
	for len(buf) < n {
		start := len(buf)
		m := min(readChunk, n-start)
		buf = slices.Grow(buf, m)[:start+m]
		if err := r.ReadInto(buf[start:], off+int64(start)); err != nil {
			var te *TruncatedError
			if errors.As(err, &te) {
				return nil, &TruncatedError{Offset: off, Want: int64(n), Got: int64(start) + te.Got}
			}
			return nil, err
		}
	}
	return buf, nil
}

// ReadInto fills buf from off. A short read is a *TruncatedError; a
// provider failure is an *Error.
func (r *Reader) ReadInto(buf []byte, off int64) error {
	n, err := r.r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return &TruncatedError{Offset: off, Want: int64(len(buf)), Got: int64(n)}
	}
	return &Error{Offset: off, Length: len(buf), Err: err}
}

// ReadBlock reads up to len(buf) bytes at off and reports how many arrived.
// Reaching the end of the provider is not an error; the caller decides
// whether a partial block is acceptable.
func (r *Reader) ReadBlock(buf []byte, off int64) (int, error) {
	n, err := r.r.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &Error{Offset: off, Length: len(buf), Err: err}
	}
	return n, nil
}

// Section returns an independent view of n bytes starting at off.
func (r *Reader) Section(off, n int64) *io.SectionReader {
	return io.NewSectionReader(r.r, off, n)
}
