package fits

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
)

// Write writes one HDU: the header followed by data padded with zeros to
// a whole block. len(data) must equal the length the header declares.
func Write(w io.Writer, h *Header, data []byte) error {
	primary := h.Len() > 0 && h.At(0).Is("SIMPLE")
	s, err := h.Structure(primary, nil)
	if err != nil {
		return fmt.Errorf("validating header: %w", err)
	}
	want, err := layout.DataLength(s)
	if err != nil {
		return err
	}
	if int64(len(data)) != want {
		return fmt.Errorf("header declares %d data bytes, got %d", want, len(data))
	}

	if _, err := w.Write(h.Bytes()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}
	pad := layout.Padded(int64(len(data))) - int64(len(data))
	if _, err := w.Write(make([]byte, pad)); err != nil {
		return fmt.Errorf("writing padding: %w", err)
	}
	return nil
}

// EncodeImage converts a slice of Go numbers to big-endian image data of
// the given element type.
func EncodeImage(bitpix Bitpix, values any) ([]byte, error) {
	return dtype.Encode(bitpix, values)
}

// ColumnDef declares a table column for NewBinTableHeader and
// NewASCIITableHeader.
type ColumnDef struct {
	Name   string
	Format string
	Unit   string
	// Scale and Zero are written as TSCALn and TZEROn when Scale is
	// non-zero and not the identity.
	Scale float64
	Zero  float64
}

// NewBinTableHeader starts a BINTABLE header with the given columns. The
// row length is derived from the formats. heap is the heap size in bytes.
func NewBinTableHeader(rows, heap int64, cols ...ColumnDef) (*HeaderBuilder, error) {
	var rowLen int64
	for i, c := range cols {
		f, err := dtype.ParseBinaryFormat(c.Format)
		if err != nil {
			return nil, withColumn(err, i+1)
		}
		rowLen += int64(f.Width())
	}
	b := header.NewBinTable(rowLen, rows, heap, int64(len(cols)))
	for i, c := range cols {
		addColumn(b, i+1, c)
	}
	return b, nil
}

// NewASCIITableHeader starts a TABLE header. Columns are laid out left to
// right separated by one space.
func NewASCIITableHeader(rows int64, cols ...ColumnDef) (*HeaderBuilder, error) {
	var rowLen int64
	tbcol := make([]int64, len(cols))
	for i, c := range cols {
		f, err := dtype.ParseASCIIFormat(c.Format)
		if err != nil {
			return nil, withColumn(err, i+1)
		}
		if i > 0 {
			rowLen++
		}
		tbcol[i] = rowLen + 1
		rowLen += int64(f.Width)
	}
	b := header.NewASCIITable(rowLen, rows, int64(len(cols)))
	for i, c := range cols {
		n := fmt.Sprint(i + 1)
		b.Set("TBCOL"+n, IntegerValue(tbcol[i]), "")
		addColumn(b, i+1, c)
	}
	return b, nil
}

func addColumn(b *HeaderBuilder, i int, c ColumnDef) {
	n := fmt.Sprint(i)
	if c.Name != "" {
		b.Set("TTYPE"+n, StringValue(c.Name), "")
	}
	b.Set("TFORM"+n, StringValue(c.Format), "")
	if c.Unit != "" {
		b.Set("TUNIT"+n, StringValue(c.Unit), "")
	}
	if c.Scale != 0 && (c.Scale != 1 || c.Zero != 0) {
		b.Set("TSCAL"+n, FloatValue(c.Scale), "")
		b.Set("TZERO"+n, FloatValue(c.Zero), "")
	}
}
