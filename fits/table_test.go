package fits

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binTable builds a primary HDU followed by a two-row binary table with a
// variable-length array column.
func binTable(t *testing.T) []byte {
	t.Helper()
	b, err := NewBinTableHeader(2, 16,
		ColumnDef{Name: "ID", Format: "1J", Scale: 0.5, Zero: 10},
		ColumnDef{Name: "FLUX", Format: "1E", Unit: "Jy"},
		ColumnDef{Name: "NAME", Format: "8A"},
		ColumnDef{Name: "FLAGS", Format: "3X"},
		ColumnDef{Name: "SAMPLES", Format: "1PJ(3)"},
	)
	require.NoError(t, err)
	b.Set("EXTNAME", StringValue("EVENTS"), "")

	var data bytes.Buffer
	row := func(id int32, flux float32, name string, flags byte, n, off int32) {
		binary.Write(&data, binary.BigEndian, id)
		binary.Write(&data, binary.BigEndian, flux)
		data.WriteString(fmt.Sprintf("%-8s", name))
		data.WriteByte(flags)
		binary.Write(&data, binary.BigEndian, n)
		binary.Write(&data, binary.BigEndian, off)
	}
	row(1, 1.5, "alpha", 0xa0, 3, 0)
	row(-2, 2.5, "beta", 0x40, 1, 12)
	binary.Write(&data, binary.BigEndian, []int32{1, 2, 3, 7})

	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))
	buf.Write(hdu(t, b, data.Bytes()))
	return buf.Bytes()
}

func TestBinaryTable(t *testing.T) {
	f, err := OpenBytes(binTable(t))
	require.NoError(t, err)

	h, err := f.ByName("events")
	require.NoError(t, err)
	assert.Equal(t, KindBinTable, h.Kind())
	assert.Equal(t, int64(2*25+16), h.DataLength())

	tab, err := h.Table()
	require.NoError(t, err)
	assert.Equal(t, int64(2), tab.NumRows())
	assert.Equal(t, 5, tab.NumCols())
	assert.False(t, tab.IsASCII())

	cols := tab.Columns()
	assert.Equal(t, "FLUX", cols[1].Name)
	assert.Equal(t, "Jy", cols[1].Unit)
	assert.Equal(t, 4, cols[1].Offset)
	assert.Equal(t, 17, cols[4].Offset)
	assert.Equal(t, 8, cols[4].Width)

	tests := []struct {
		row  int64
		col  int
		want any
	}{
		{0, 0, int32(1)},
		{0, 1, float32(1.5)},
		{0, 2, "alpha"},
		{0, 3, []bool{true, false, true}},
		{0, 4, []int32{1, 2, 3}},
		{1, 0, int32(-2)},
		{1, 2, "beta"},
		{1, 3, []bool{false, true, false}},
		{1, 4, []int32{7}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("r%dc%d", tt.row, tt.col), func(t *testing.T) {
			got, err := tab.Cell(tt.row, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	row, err := tab.Row(1)
	require.NoError(t, err)
	assert.Len(t, row, 5)
	assert.Equal(t, float32(2.5), row[1])

	ids, err := tab.ColumnFloat64("id")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 9}, ids)

	idx, err := tab.ColumnIndex("Samples")
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	_, err = tab.ColumnFloat64("NAME")
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
	_, err = tab.ColumnIndex("MISSING")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tab.Cell(2, 0)
	var be *BoundsError
	assert.ErrorAs(t, err, &be)
}

func TestASCIITable(t *testing.T) {
	b, err := NewASCIITableHeader(2,
		ColumnDef{Name: "NAME", Format: "A6"},
		ColumnDef{Name: "COUNT", Format: "I4"},
		ColumnDef{Name: "VALUE", Format: "F8.2"},
	)
	require.NoError(t, err)
	data := fmt.Sprintf("%-6s %4d %8.2f", "alpha", 12, 3.25) +
		fmt.Sprintf("%-6s %4s %8.2f", "beta", "", -1.5)
	require.Len(t, data, 40)

	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))
	buf.Write(hdu(t, b, []byte(data)))

	f, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	h, err := f.HDU(1)
	require.NoError(t, err)
	assert.Equal(t, KindASCIITable, h.Kind())

	tab, err := h.Table()
	require.NoError(t, err)
	assert.True(t, tab.IsASCII())

	row, err := tab.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []any{"alpha", int64(12), 3.25}, row)

	count, err := tab.Cell(1, 1)
	require.NoError(t, err)
	assert.Nil(t, count)

	counts, err := tab.ColumnFloat64("COUNT")
	require.NoError(t, err)
	assert.Equal(t, 12.0, counts[0])
	assert.True(t, math.IsNaN(counts[1]))

	values, err := tab.ColumnFloat64("value")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.25, -1.5}, values)
}

func TestTableFormatErrors(t *testing.T) {
	_, err := NewBinTableHeader(1, 0, ColumnDef{Name: "BAD", Format: "9Z"})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Column)

	// A header written with an unknown TFORM still opens; only the table
	// view fails.
	b := NewExtensionHeader("BINTABLE", Uint8, []int64{4, 1}, 0, 1).
		Set("TFIELDS", IntegerValue(1), "").
		Set("TFORM1", StringValue("4Z"), "")
	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))
	buf.Write(hdu(t, b, make([]byte, 4)))

	f, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	h, err := f.HDU(1)
	require.NoError(t, err)
	_, err = h.Table()
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Column)

	raw, err := h.ReadRaw()
	require.NoError(t, err)
	assert.Len(t, raw, 4)

	_, err = f.Primary().Table()
	assert.ErrorIs(t, err, ErrNotTable)
}

func TestTableHugeRepeat(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))
	buf.Write(records("XTENSION= 'BINTABLE'", "BITPIX  =                    8", "NAXIS   =                    2",
		"NAXIS1  =                    4", "NAXIS2  =                    1", "PCOUNT  =                    0",
		"GCOUNT  =                    1", "TFIELDS =                    1", "TFORM1  = '4611686018427387904J'", "END"))
	buf.Write(make([]byte, 2880))

	f, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	h, err := f.HDU(1)
	require.NoError(t, err)

	_, err = h.Table()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Column)
}

func TestHeapDescriptorOutOfRange(t *testing.T) {
	b, err := NewBinTableHeader(3, 8, ColumnDef{Name: "V", Format: "1QJ"})
	require.NoError(t, err)

	var data bytes.Buffer
	binary.Write(&data, binary.BigEndian, []int64{
		1 << 62, 1<<62 + 1<<61, // end of range overflows int64
		3, 0, // runs past the heap
		2, 0,
	})
	binary.Write(&data, binary.BigEndian, []int32{5, 6})

	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))
	buf.Write(hdu(t, b, data.Bytes()))

	f, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	h, err := f.HDU(1)
	require.NoError(t, err)
	tab, err := h.Table()
	require.NoError(t, err)

	var de *DecodeError
	_, err = tab.Cell(0, 0)
	assert.ErrorAs(t, err, &de)
	_, err = tab.Cell(1, 0)
	assert.ErrorAs(t, err, &de)

	v, err := tab.Cell(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int32{5, 6}, v)
}
