package layout

import (
	"fmt"
	"math/bits"

	"github.com/robert-malhotra/go-fits/internal/header"
)

// Geometry is the position of one HDU within the source.
type Geometry struct {
	HeaderOffset int64
	HeaderBlocks int
	DataOffset   int64
	// DataLength is the unpadded length of the data unit.
	DataLength int64
}

// Compute derives the geometry of an HDU whose header of the given number
// of blocks starts at headerOffset.
func Compute(headerOffset int64, headerBlocks int, s header.Structure) (Geometry, error) {
	n, err := DataLength(s)
	if err != nil {
		return Geometry{}, err
	}
	g := Geometry{
		HeaderOffset: headerOffset,
		HeaderBlocks: headerBlocks,
		DataOffset:   headerOffset + int64(headerBlocks)*header.BlockSize,
		DataLength:   n,
	}
	if g.NextOffset() < g.DataOffset {
		return Geometry{}, fmt.Errorf("data unit of %d bytes overflows the offset range", n)
	}
	return g, nil
}

// DataLength returns the unpadded data unit length declared by s.
func DataLength(s header.Structure) (int64, error) {
	if len(s.Axes) == 0 && s.Pcount == 0 {
		return 0, nil
	}
	width := uint64(s.Bitpix)
	if s.Bitpix < 0 {
		width = uint64(-s.Bitpix)
	}
	width /= 8

	axes := s.Axes
	if s.Groups && len(axes) > 0 {
		axes = axes[1:]
	}
	var count uint64
	if len(axes) > 0 {
		count = 1
		for _, n := range axes {
			var ok bool
			if count, ok = mul(count, uint64(n)); !ok {
				return 0, errOverflow(s)
			}
		}
	}

	total := count + uint64(s.Pcount)
	if total < count {
		return 0, errOverflow(s)
	}
	total, ok := mul(total, uint64(s.Gcount))
	if ok {
		total, ok = mul(total, width)
	}
	if !ok || total > 1<<62 {
		return 0, errOverflow(s)
	}
	return int64(total), nil
}

func mul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

func errOverflow(s header.Structure) error {
	return fmt.Errorf("data length overflows for BITPIX %d, axes %v, PCOUNT %d, GCOUNT %d",
		s.Bitpix, s.Axes, s.Pcount, s.Gcount)
}

// Padded rounds n up to a whole number of blocks.
func Padded(n int64) int64 {
	return (n + header.BlockSize - 1) / header.BlockSize * header.BlockSize
}

// PaddedLength returns the data unit length including block padding.
func (g Geometry) PaddedLength() int64 {
	return Padded(g.DataLength)
}

// NextOffset returns where the following header starts.
func (g Geometry) NextOffset() int64 {
	return g.DataOffset + g.PaddedLength()
}
