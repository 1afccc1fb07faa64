package fits

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
)

// Column describes one table column.
type Column struct {
	// Name is TTYPEn, Unit TUNITn and Format TFORMn.
	Name   string
	Unit   string
	Format string
	// Offset is the byte position of the column within a row and Width
	// its length in bytes.
	Offset int
	Width  int
	// Scale and Zero are TSCALn and TZEROn.
	Scale float64
	Zero  float64
	// Null is TNULLn. For binary tables it is the integer sentinel, for
	// ASCII tables the literal field text.
	Null    string
	HasNull bool

	binary dtype.BinaryFormat
	ascii  dtype.ASCIIFormat
}

// Repeat returns the number of elements per cell for binary columns, 1 for
// ASCII columns.
func (c Column) Repeat() int {
	if c.binary.Code != 0 {
		return c.binary.Repeat
	}
	return 1
}

// Table is a lazy view of a binary or ASCII table. Cells are read from the
// source on each request.
type Table struct {
	hdu    *HDU
	ascii  bool
	rows   int64
	rowLen int64
	heap   int64
	cols   []Column
}

// Table returns the table view of a BINTABLE or TABLE extension.
func (h *HDU) Table() (*Table, error) {
	if h.file.src.Closed() {
		return nil, ErrClosed
	}
	if h.kind != KindBinTable && h.kind != KindASCIITable {
		return nil, fmt.Errorf("%w: %s", ErrNotTable, h)
	}
	if len(h.st.Axes) != 2 {
		return nil, fmt.Errorf("%s: table must have NAXIS = 2, has %d", h, len(h.st.Axes))
	}

	t := &Table{
		hdu:    h,
		ascii:  h.kind == KindASCIITable,
		rowLen: h.st.Axes[0],
		rows:   h.st.Axes[1],
	}
	t.heap = t.rowLen * t.rows
	if h.header.Has("THEAP") {
		theap, err := h.header.Int("THEAP")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h, err)
		}
		t.heap = theap
	}

	nfields, err := h.header.Int("TFIELDS")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	if nfields < 0 || nfields > 999 {
		return nil, fmt.Errorf("%s: TFIELDS %d outside 0..999", h, nfields)
	}

	offset := 0
	for i := 1; i <= int(nfields); i++ {
		c, err := t.column(h.header, i, offset)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h, err)
		}
		if !t.ascii {
			offset += c.Width
		}
		t.cols = append(t.cols, c)
	}
	if !t.ascii && int64(offset) > t.rowLen {
		return nil, fmt.Errorf("%s: columns span %d bytes, NAXIS1 is %d", h, offset, t.rowLen)
	}
	return t, nil
}

func (t *Table) column(h *header.Header, i, offset int) (Column, error) {
	n := strconv.Itoa(i)
	format, err := h.Text("TFORM" + n)
	if err != nil {
		return Column{}, &DecodeError{Column: i, Msg: "missing TFORM" + n}
	}
	c := Column{Format: strings.TrimSpace(format), Scale: 1}
	c.Name, _ = h.Text("TTYPE" + n)
	c.Name = strings.TrimSpace(c.Name)
	c.Unit, _ = h.Text("TUNIT" + n)

	s, err := scalingOf(h, "TZERO"+n, "TSCAL"+n, "", false)
	if err != nil {
		return Column{}, err
	}
	c.Zero, c.Scale = s.Zero, s.Scale

	if v, ok := h.Get("TNULL" + n); ok {
		c.Null, c.HasNull = strings.TrimSpace(v.Text()), true
	}

	if t.ascii {
		c.ascii, err = dtype.ParseASCIIFormat(c.Format)
		if err != nil {
			return Column{}, withColumn(err, i)
		}
		tbcol, err := h.Int("TBCOL" + n)
		if err != nil {
			return Column{}, &DecodeError{Column: i, Format: c.Format, Msg: "missing or invalid TBCOL" + n}
		}
		c.Offset, c.Width = int(tbcol)-1, c.ascii.Width
		if c.Offset < 0 || int64(c.Offset) > t.rowLen || int64(c.Width) > t.rowLen-int64(c.Offset) {
			return Column{}, &DecodeError{Column: i, Format: c.Format, Msg: fmt.Sprintf("field at TBCOL %d exceeds row of %d", tbcol, t.rowLen)}
		}
		return c, nil
	}

	c.binary, err = dtype.ParseBinaryFormat(c.Format)
	if err != nil {
		return Column{}, withColumn(err, i)
	}
	if c.HasNull {
		if _, err := strconv.ParseInt(c.Null, 10, 64); err != nil {
			return Column{}, &DecodeError{Column: i, Format: c.Format, Msg: "non-integer TNULL" + n}
		}
	}
	c.Offset, c.Width = offset, c.binary.Width()
	return c, nil
}

func withColumn(err error, i int) error {
	if de, ok := err.(*DecodeError); ok {
		de.Column = i
	}
	return err
}

// NumRows returns NAXIS2.
func (t *Table) NumRows() int64 {
	return t.rows
}

// NumCols returns TFIELDS.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// IsASCII reports whether this is an ASCII table.
func (t *Table) IsASCII() bool {
	return t.ascii
}

// Columns returns the column descriptions in order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.cols...)
}

// ColumnIndex returns the 0-based index of the column named name, ignoring
// case.
func (t *Table) ColumnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	for i, c := range t.cols {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: column %q", ErrNotFound, name)
}

// Cell returns the stored value at row and 0-based column col. Binary
// cells with a repeat of 1 are Go scalars, larger repeats slices; A
// columns are strings and X columns []bool. Variable-length arrays are
// read from the heap. ASCII cells are string, int64 or float64, and nil
// for blank or TNULL fields. No scaling is applied.
func (t *Table) Cell(row int64, col int) (any, error) {
	if t.hdu.file.src.Closed() {
		return nil, ErrClosed
	}
	if row < 0 || row >= t.rows || col < 0 || col >= len(t.cols) {
		return nil, &BoundsError{Index: []int64{row, int64(col)}, Shape: []int64{t.rows, int64(len(t.cols))}}
	}
	c := t.cols[col]
	field := make([]byte, c.Width)
	if err := t.hdu.data.ReadInto(field, row*t.rowLen+int64(c.Offset)); err != nil {
		return nil, fmt.Errorf("%s row %d column %d: %w", t.hdu, row, col, err)
	}
	v, err := t.decode(c, field)
	if err != nil {
		return nil, fmt.Errorf("%s row %d: %w", t.hdu, row, withColumn(err, col+1))
	}
	return v, nil
}

func (t *Table) decode(c Column, field []byte) (any, error) {
	if t.ascii {
		if c.HasNull && strings.TrimSpace(string(field)) == c.Null {
			return nil, nil
		}
		return c.ascii.Decode(field)
	}
	if !c.binary.IsDescriptor() {
		return c.binary.Decode(field)
	}

	n, off := c.binary.Descriptor(field)
	size := int64(c.binary.ElemSize())
	avail := t.hdu.data.Size() - t.heap
	if n < 0 || off < 0 || off > avail || n > (avail-off)/size {
		return nil, &DecodeError{Format: c.Format, Msg: fmt.Sprintf("bad descriptor (%d, %d)", n, off)}
	}
	heap, err := t.hdu.data.ReadAt(t.heap+off, n*size)
	if err != nil {
		return nil, err
	}
	return dtype.DecodeArray(c.binary.Elem, int(n), heap)
}

// Row returns every cell of a row.
func (t *Table) Row(row int64) ([]any, error) {
	out := make([]any, len(t.cols))
	for i := range t.cols {
		v, err := t.Cell(row, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ColumnFloat64 reads a scalar numeric column as physical values,
// TZERO + TSCAL * stored. Null cells are NaN.
func (t *Table) ColumnFloat64(name string) ([]float64, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	c := t.cols[col]
	if c.Repeat() != 1 || c.binary.IsDescriptor() || c.binary.Code == 'A' || c.ascii.Code == 'A' {
		return nil, &DecodeError{Column: col + 1, Format: c.Format, Msg: "not a scalar numeric column"}
	}

	var null int64
	if c.HasNull && !t.ascii {
		null, _ = strconv.ParseInt(c.Null, 10, 64)
	}
	out := make([]float64, t.rows)
	for row := range out {
		v, err := t.Cell(int64(row), col)
		if err != nil {
			return nil, err
		}
		if v == nil {
			out[row] = math.NaN()
			continue
		}
		if c.HasNull && !t.ascii {
			if i, ok := dtype.ToInt64(v); ok && i == null {
				out[row] = math.NaN()
				continue
			}
		}
		f, ok := dtype.ToFloat64(v)
		if !ok {
			return nil, &DecodeError{Column: col + 1, Format: c.Format, Msg: fmt.Sprintf("cannot convert %T", v)}
		}
		out[row] = c.Zero + c.Scale*f
	}
	return out, nil
}
