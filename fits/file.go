package fits

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
	"github.com/robert-malhotra/go-fits/internal/source"
)

// State is the position of a file's HDU walk.
type State int

const (
	StateEmpty State = iota
	StateScanningHeader
	StateHeaderComplete
	StateDataViewReady
	StateEndOfSource
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateScanningHeader:
		return "scanning header"
	case StateHeaderComplete:
		return "header complete"
	case StateDataViewReady:
		return "data view ready"
	case StateEndOfSource:
		return "end of source"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// File is an open FITS file. HDUs are scanned on first request and cached
// by index for the lifetime of the File. A File is safe for concurrent use.
type File struct {
	path   string
	src    *source.Guard
	reader *source.Reader
	opts   *options
	log    *slog.Logger

	mu    sync.Mutex
	hdus  []*HDU
	next  int64
	state State
	err   error
}

// Open opens a FITS file on disk. Gzip-compressed files are inflated into
// memory.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	prefix := make([]byte, 2)
	n, _ := f.ReadAt(prefix, 0)
	if source.IsGzip(prefix[:n]) {
		mem, err := source.Gunzip(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		file, err := newFile(mem, nil, opts)
		if err != nil {
			return nil, err
		}
		file.path = path
		return file, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	file, err := newFile(source.FromReaderAt(f, info.Size()), f, opts)
	if err != nil {
		return nil, err
	}
	file.path = path
	return file, nil
}

// OpenReaderAt reads FITS data from r. size is the total length of r, or
// negative when unknown.
func OpenReaderAt(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	return newFile(source.FromReaderAt(r, size), nil, opts)
}

// OpenBytes reads FITS data held in memory, inflating it first if it is
// gzip-compressed.
func OpenBytes(b []byte, opts ...Option) (*File, error) {
	if source.IsGzip(b) {
		mem, err := source.Gunzip(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		return newFile(mem, nil, opts)
	}
	return newFile(source.Memory(b), nil, opts)
}

// OpenStream reads FITS data from a seekable stream. Reads are serialized
// on the stream's single cursor.
func OpenStream(rs io.ReadSeeker, opts ...Option) (*File, error) {
	s, err := source.NewStream(rs)
	if err != nil {
		return nil, err
	}
	var closer io.Closer
	if c, ok := rs.(io.Closer); ok {
		closer = c
	}
	return newFile(s, closer, opts)
}

func newFile(src io.ReaderAt, closer io.Closer, opts []Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	guard := source.NewGuard(src, closer)
	f := &File{
		src:    guard,
		reader: source.NewReader(guard),
		opts:   o,
		log:    o.logger,
	}

	// The primary HDU must be readable for the source to count as FITS.
	f.mu.Lock()
	f.scanNext()
	ok := len(f.hdus) > 0
	err := f.err
	f.mu.Unlock()
	if !ok {
		guard.Close()
		if err == nil {
			err = fmt.Errorf("%w: empty source", ErrNotFITS)
		}
		return nil, err
	}
	return f, nil
}

// Close releases the source. Every later request, including reads through
// HDUs and data views obtained earlier, fails with ErrClosed.
func (f *File) Close() error {
	return f.src.Close()
}

// Path returns the file path, or "" when not opened from disk.
func (f *File) Path() string {
	return f.path
}

// HDU returns the HDU at index i, scanning headers up to it if needed.
// If the walk stopped earlier, the error that stopped it is returned.
func (f *File) HDU(i int) (*HDU, error) {
	if f.src.Closed() {
		return nil, ErrClosed
	}
	if i < 0 {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.hdus) <= i && f.scanNext() {
	}
	if i < len(f.hdus) {
		return f.hdus[i], nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, fmt.Errorf("%w: index %d, file has %d", ErrNotFound, i, len(f.hdus))
}

// Primary returns the primary HDU.
func (f *File) Primary() *HDU {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hdus[0]
}

// Len scans every remaining header and returns the number of HDUs that
// could be constructed.
func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.scanNext() {
	}
	return len(f.hdus)
}

// Err scans every remaining header and reports why the walk stopped before
// the end of the source, or nil when it reached the end.
func (f *File) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.scanNext() {
	}
	return f.err
}

// State returns the current walk state.
func (f *File) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ByName returns the first HDU whose EXTNAME matches name, ignoring case
// and surrounding spaces.
func (f *File) ByName(name string) (*HDU, error) {
	return f.ByNameVersion(name, 0)
}

// ByNameVersion returns the first HDU matching name and EXTVER. A version
// of 0 matches any.
func (f *File) ByNameVersion(name string, version int) (*HDU, error) {
	if f.src.Closed() {
		return nil, ErrClosed
	}
	name = strings.TrimSpace(name)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; ; i++ {
		if i == len(f.hdus) && !f.scanNext() {
			break
		}
		h := f.hdus[i]
		if strings.EqualFold(h.Name(), name) && (version == 0 || h.Version() == version) {
			return h, nil
		}
	}
	if f.err != nil {
		return nil, fmt.Errorf("%w: %q (walk stopped: %v)", ErrNotFound, name, f.err)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// scanNext constructs the next HDU. It reports whether one was added; the
// caller must hold f.mu.
func (f *File) scanNext() bool {
	if f.state == StateEndOfSource || f.state == StateFailed {
		return false
	}
	index, off := len(f.hdus), f.next

	f.state = StateScanningHeader
	h, blocks, err := header.Read(f.reader, off, f.opts.headerOptions())
	if errors.Is(err, io.EOF) {
		f.state = StateEndOfSource
		f.log.Debug("end of source", "hdus", index, "offset", off)
		return false
	}
	if err != nil {
		f.fail(index, off, err)
		return false
	}

	f.state = StateHeaderComplete
	s, err := h.Structure(index == 0, f.log.With("hdu", index))
	if err != nil {
		f.fail(index, off, err)
		return false
	}
	g, err := layout.Compute(off, blocks, s)
	if err != nil {
		f.fail(index, off, err)
		return false
	}

	hdu := newHDU(f, index, h, s, g)
	f.hdus = append(f.hdus, hdu)
	f.next = g.NextOffset()
	f.state = StateDataViewReady
	f.log.Debug("constructed HDU",
		"index", index,
		"kind", hdu.Kind(),
		"header_offset", g.HeaderOffset,
		"data_offset", g.DataOffset,
		"data_length", g.DataLength)

	if size, ok := f.reader.Size(); ok {
		switch {
		case size < f.next:
			got := max(size-g.DataOffset, 0)
			f.fail(index, off, &source.TruncatedError{Offset: g.DataOffset, Want: g.PaddedLength(), Got: got})
		case size == f.next:
			f.state = StateEndOfSource
			f.log.Debug("end of source", "hdus", index+1, "offset", f.next)
		}
	}
	return true
}

func (f *File) fail(index int, off int64, err error) {
	f.state = StateFailed
	f.err = fmt.Errorf("HDU %d at offset %d: %w", index, off, err)
	f.log.Warn("stopped reading HDUs", "index", index, "offset", off, "error", err)
}
