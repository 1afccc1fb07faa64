package layout

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-fits/internal/source"
)

// Contiguous reads a data unit stored as one contiguous byte range.
type Contiguous struct {
	reader *source.Reader
	offset int64
	size   int64
}

// NewContiguous creates a reader for the data unit described by g.
func NewContiguous(r *source.Reader, g Geometry) *Contiguous {
	return &Contiguous{reader: r, offset: g.DataOffset, size: g.DataLength}
}

// Read reads the whole unpadded data unit.
func (c *Contiguous) Read() ([]byte, error) {
	if c.size == 0 {
		return []byte{}, nil
	}
	data, err := c.reader.ReadExact(c.offset, int(c.size))
	if err != nil {
		return nil, fmt.Errorf("reading data unit: %w", err)
	}
	return data, nil
}

// ReadAt reads n bytes starting off bytes into the data unit.
func (c *Contiguous) ReadAt(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off > c.size || n > c.size-off {
		return nil, fmt.Errorf("range [%d, %d) outside data unit of %d bytes", off, off+n, c.size)
	}
	return c.reader.ReadExact(c.offset+off, int(n))
}

// ReadInto fills buf from off bytes into the data unit.
func (c *Contiguous) ReadInto(buf []byte, off int64) error {
	if off < 0 || off > c.size || int64(len(buf)) > c.size-off {
		return fmt.Errorf("range [%d, %d) outside data unit of %d bytes", off, off+int64(len(buf)), c.size)
	}
	return c.reader.ReadInto(buf, c.offset+off)
}

// Section returns an independent reader over the unpadded data unit.
func (c *Contiguous) Section() *io.SectionReader {
	return c.reader.Section(c.offset, c.size)
}

// Offset returns the source offset of the data unit.
func (c *Contiguous) Offset() int64 {
	return c.offset
}

// Size returns the unpadded data unit length in bytes.
func (c *Contiguous) Size() int64 {
	return c.size
}
