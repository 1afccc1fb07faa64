package source

import (
	"fmt"
	"io"
	"sync"
)

// Sizer is implemented by providers that know their total length.
type Sizer interface {
	Size() (int64, bool)
}

// SizeOf returns the total length of src if the provider exposes one.
func SizeOf(src io.ReaderAt) (int64, bool) {
	if s, ok := src.(Sizer); ok {
		return s.Size()
	}
	return 0, false
}

// Memory is a fully buffered byte region.
type Memory []byte

// ReadAt implements io.ReaderAt.
func (m Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= int64(len(m)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the region length.
func (m Memory) Size() (int64, bool) {
	return int64(len(m)), true
}

type readerAt struct {
	r    io.ReaderAt
	size int64
}

// FromReaderAt adapts r as a provider. A negative size means the total
// length is unknown and the walker stops at the first empty header block.
func FromReaderAt(r io.ReaderAt, size int64) io.ReaderAt {
	return &readerAt{r: r, size: size}
}

func (r *readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.r.ReadAt(p, off)
}

func (r *readerAt) Size() (int64, bool) {
	return r.size, r.size >= 0
}

// Stream adapts a single-cursor io.ReadSeeker. Cursor movement is
// serialized so concurrent positioned reads never interleave.
type Stream struct {
	mu   sync.Mutex
	rs   io.ReadSeeker
	size int64
}

// NewStream measures rs by seeking to its end and returns a Stream over it.
func NewStream(rs io.ReadSeeker) (*Stream, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measuring stream: %w", err)
	}
	return &Stream{rs: rs, size: size}, nil
}

// ReadAt implements io.ReaderAt on top of Seek and Read.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(s.rs, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// Size returns the stream length measured at construction.
func (s *Stream) Size() (int64, bool) {
	return s.size, true
}
