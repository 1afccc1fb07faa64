package source

import (
	"io"
	"sync/atomic"
)

// Guard wraps a provider so that reads fail with ErrClosed once its owner
// has been closed.
type Guard struct {
	src    io.ReaderAt
	closer io.Closer
	closed atomic.Bool
}

// NewGuard wraps src. closer, if non-nil, is released by Close.
func NewGuard(src io.ReaderAt, closer io.Closer) *Guard {
	return &Guard{src: src, closer: closer}
}

// ReadAt implements io.ReaderAt.
func (g *Guard) ReadAt(p []byte, off int64) (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	return g.src.ReadAt(p, off)
}

// Size forwards to the wrapped provider.
func (g *Guard) Size() (int64, bool) {
	return SizeOf(g.src)
}

// Closed reports whether Close has been called.
func (g *Guard) Closed() bool {
	return g.closed.Load()
}

// Close marks the guard closed and releases the underlying resource once.
func (g *Guard) Close() error {
	if g.closed.Swap(true) {
		return nil
	}
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}
