package fits

import (
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
)

// Kind identifies the type of an HDU.
type Kind int

const (
	KindPrimary Kind = iota
	KindImage
	KindBinTable
	KindASCIITable
	// KindUnknown is an extension whose XTENSION is not recognized. Its data
	// is available as raw bytes only.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindImage:
		return "image"
	case KindBinTable:
		return "binary table"
	case KindASCIITable:
		return "ASCII table"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HDU is one header/data unit. It owns its header and the location of its
// data unit; no data is read until requested.
type HDU struct {
	file   *File
	index  int
	kind   Kind
	header *header.Header
	st     header.Structure
	geom   layout.Geometry
	data   *layout.Contiguous
}

func newHDU(f *File, index int, h *header.Header, s header.Structure, g layout.Geometry) *HDU {
	hdu := &HDU{
		file:   f,
		index:  index,
		header: h,
		st:     s,
		geom:   g,
		data:   layout.NewContiguous(f.reader, g),
	}
	if index == 0 {
		hdu.kind = KindPrimary
		return hdu
	}
	switch strings.ToUpper(s.Xtension) {
	case "IMAGE", "IUEIMAGE":
		hdu.kind = KindImage
	case "BINTABLE", "A3DTABLE":
		hdu.kind = KindBinTable
	case "TABLE":
		hdu.kind = KindASCIITable
	default:
		hdu.kind = KindUnknown
		f.log.Warn("unrecognized XTENSION, data available as raw bytes", "index", index, "xtension", s.Xtension)
	}
	return hdu
}

// Index returns the position of the HDU in the file, 0 for the primary.
func (h *HDU) Index() int {
	return h.index
}

// Kind returns the HDU type.
func (h *HDU) Kind() Kind {
	return h.kind
}

// Xtension returns the XTENSION value, or "" for the primary HDU.
func (h *HDU) Xtension() string {
	return h.st.Xtension
}

// Header returns the parsed header.
func (h *HDU) Header() *Header {
	return h.header
}

// Name returns the trimmed EXTNAME value, or "".
func (h *HDU) Name() string {
	name, err := h.header.Text("EXTNAME")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// Version returns EXTVER, defaulting to 1.
func (h *HDU) Version() int {
	v, err := h.header.Int("EXTVER")
	if err != nil {
		return 1
	}
	return int(v)
}

// Bitpix returns the declared BITPIX.
func (h *HDU) Bitpix() int64 {
	return h.st.Bitpix
}

// Axes returns NAXIS1..NAXISn as declared.
func (h *HDU) Axes() []int64 {
	return append([]int64(nil), h.st.Axes...)
}

// IsRandomGroups reports whether this is a random-groups primary HDU.
func (h *HDU) IsRandomGroups() bool {
	return h.st.Groups
}

// HeaderOffset returns the source offset of the first header block.
func (h *HDU) HeaderOffset() int64 {
	return h.geom.HeaderOffset
}

// HeaderBlocks returns the number of 2880-byte blocks in the header.
func (h *HDU) HeaderBlocks() int {
	return h.geom.HeaderBlocks
}

// DataOffset returns the source offset of the data unit.
func (h *HDU) DataOffset() int64 {
	return h.geom.DataOffset
}

// DataLength returns the unpadded data unit length in bytes.
func (h *HDU) DataLength() int64 {
	return h.geom.DataLength
}

// PaddedLength returns the data unit length rounded up to whole blocks.
func (h *HDU) PaddedLength() int64 {
	return h.geom.PaddedLength()
}

// NextOffset returns where the next HDU's header starts.
func (h *HDU) NextOffset() int64 {
	return h.geom.NextOffset()
}

// Data returns a reader over the unpadded data unit. It works for every
// kind of HDU, including unrecognized extensions.
func (h *HDU) Data() *io.SectionReader {
	return h.data.Section()
}

// ReadRaw reads the whole unpadded data unit.
func (h *HDU) ReadRaw() ([]byte, error) {
	if h.file.src.Closed() {
		return nil, ErrClosed
	}
	data, err := h.data.Read()
	if err != nil {
		return nil, fmt.Errorf("HDU %d: %w", h.index, err)
	}
	return data, nil
}

func (h *HDU) String() string {
	if name := h.Name(); name != "" {
		return fmt.Sprintf("HDU %d (%s %q)", h.index, h.kind, name)
	}
	return fmt.Sprintf("HDU %d (%s)", h.index, h.kind)
}
