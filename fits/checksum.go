package fits

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/checksum"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
)

// VerifyChecksum checks the DATASUM and CHECKSUM cards that are present
// against the bytes of the HDU, including block padding. It returns
// ErrNoChecksum when neither card exists and an error wrapping ErrChecksum
// on mismatch.
func (h *HDU) VerifyChecksum() error {
	if h.file.src.Closed() {
		return ErrClosed
	}
	datasum, hasData := h.header.Get("DATASUM")
	stored, hasHDU := h.header.Get("CHECKSUM")
	if !hasData && !hasHDU {
		return ErrNoChecksum
	}

	r := h.file.reader
	dsum, err := sumRegion(r.ReadInto, h.geom.DataOffset, h.geom.PaddedLength())
	if err != nil {
		return fmt.Errorf("HDU %d: %w", h.index, err)
	}
	if hasData {
		text, err := datasum.AsString()
		if err != nil {
			return fmt.Errorf("HDU %d DATASUM: %w", h.index, err)
		}
		want, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return fmt.Errorf("HDU %d DATASUM %q: %w", h.index, text, err)
		}
		if uint32(want) != dsum {
			return fmt.Errorf("HDU %d: %w: DATASUM is %d, data sums to %d", h.index, ErrChecksum, want, dsum)
		}
	}
	if hasHDU {
		if _, err := stored.AsString(); err != nil {
			return fmt.Errorf("HDU %d CHECKSUM: %w", h.index, err)
		}
		hsum, err := sumRegion(r.ReadInto, h.geom.HeaderOffset, h.geom.DataOffset-h.geom.HeaderOffset)
		if err != nil {
			return fmt.Errorf("HDU %d: %w", h.index, err)
		}
		if total := checksum.Add(hsum, dsum); total != checksum.Valid {
			return fmt.Errorf("HDU %d: %w: HDU sums to %#08x", h.index, ErrChecksum, total)
		}
	}
	return nil
}

// sumRegion sums n bytes at off in block-sized chunks.
func sumRegion(read func([]byte, int64) error, off, n int64) (uint32, error) {
	buf := make([]byte, 16*header.BlockSize)
	var sum uint32
	for n > 0 {
		chunk := buf[:min(n, int64(len(buf)))]
		if err := read(chunk, off); err != nil {
			return 0, err
		}
		sum = checksum.Sum(chunk, sum)
		off += int64(len(chunk))
		n -= int64(len(chunk))
	}
	return sum, nil
}

// SetChecksum adds DATASUM and CHECKSUM cards to b for an HDU carrying data
// and returns the finished header. data is the unpadded data unit as it will
// be passed to Write.
func SetChecksum(b *HeaderBuilder, data []byte) (*Header, error) {
	padded := make([]byte, layout.Padded(int64(len(data))))
	copy(padded, data)
	dsum := checksum.Sum(padded, 0)

	b.Set("DATASUM", StringValue(strconv.FormatUint(uint64(dsum), 10)), "data unit checksum").
		Set("CHECKSUM", StringValue(checksum.Zero), "HDU checksum")
	h, err := b.Build()
	if err != nil {
		return nil, err
	}
	hsum := checksum.Add(checksum.Sum(h.Bytes(), 0), dsum)

	b.Set("CHECKSUM", StringValue(checksum.Encode(hsum)), "HDU checksum")
	return b.Build()
}
