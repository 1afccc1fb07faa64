package fits

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checksummed(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(hdu(t, NewPrimaryHeader(Uint8), nil))

	data := encode(t, Int32, []int32{1, -2, 3, 400000})
	h, err := SetChecksum(NewImageHeader(Int32, 2, 2).Set("EXTNAME", StringValue("SUMMED"), ""), data)
	require.NoError(t, err)
	require.NoError(t, Write(&buf, h, data))
	return buf.Bytes()
}

func TestVerifyChecksum(t *testing.T) {
	f, err := OpenBytes(checksummed(t))
	require.NoError(t, err)

	assert.ErrorIs(t, f.Primary().VerifyChecksum(), ErrNoChecksum)

	ext, err := f.ByName("SUMMED")
	require.NoError(t, err)
	assert.True(t, ext.Header().Has("DATASUM"))
	assert.NoError(t, ext.VerifyChecksum())
}

func TestVerifyChecksumDetectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		offset func(h *HDU) int64
	}{
		{"data", func(h *HDU) int64 { return h.DataOffset() + 5 }},
		{"header", func(h *HDU) int64 { return h.HeaderOffset() + 80*5 + 40 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := checksummed(t)
			f, err := OpenBytes(data)
			require.NoError(t, err)
			ext, err := f.HDU(1)
			require.NoError(t, err)

			corrupt := append([]byte(nil), data...)
			corrupt[tt.offset(ext)] ^= 0x10

			f, err = OpenBytes(corrupt)
			require.NoError(t, err)
			ext, err = f.HDU(1)
			require.NoError(t, err)
			assert.ErrorIs(t, ext.VerifyChecksum(), ErrChecksum)
		})
	}
}
