// Package checksum implements the FITS DATASUM and CHECKSUM convention: a
// 32-bit ones' complement sum of big-endian words, and the 16-character
// ASCII encoding stored in the CHECKSUM card.
package checksum

// Sum adds data, read as big-endian 32-bit words, to the running ones'
// complement sum. len(data) must be a multiple of 4; FITS blocks always are.
func Sum(data []byte, sum uint32) uint32 {
	hi := uint64(sum >> 16)
	lo := uint64(sum & 0xffff)
	for i := 0; i+3 < len(data); i += 4 {
		hi += uint64(data[i])<<8 | uint64(data[i+1])
		lo += uint64(data[i+2])<<8 | uint64(data[i+3])
	}
	return fold(hi, lo)
}

// Add combines two ones' complement sums.
func Add(a, b uint32) uint32 {
	return fold(uint64(a>>16)+uint64(b>>16), uint64(a&0xffff)+uint64(b&0xffff))
}

// fold moves carries out of each 16-bit half into the other one.
func fold(hi, lo uint64) uint32 {
	for hc, lc := hi>>16, lo>>16; hc != 0 || lc != 0; hc, lc = hi>>16, lo>>16 {
		hi = hi&0xffff + lc
		lo = lo&0xffff + hc
	}
	return uint32(hi<<16 | lo)
}

// Zero is the CHECKSUM value written before the HDU sum is computed.
const Zero = "0000000000000000"

// Valid is the HDU sum when CHECKSUM is correct (negative zero).
const Valid uint32 = 0xffffffff

var excluded = [...]byte{
	0x3a, 0x3b, 0x3c, 0x3d, 0x3e, 0x3f, 0x40,
	0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
}

func isExcluded(c byte) bool {
	for _, e := range excluded {
		if c == e {
			return true
		}
	}
	return false
}

// Encode returns the CHECKSUM string for an HDU whose sum, computed with
// CHECKSUM set to Zero, is sum. The result is aligned for a value that
// starts in column 12 of its card.
func Encode(sum uint32) string {
	value := ^sum
	var asc [16]byte
	for i := 0; i < 4; i++ {
		b := int(value >> (24 - 8*uint(i)) & 0xff)
		q, r := b/4+'0', b%4
		ch := [4]int{q + r, q, q, q}
		for again := true; again; {
			again = false
			for _, e := range excluded {
				for j := 0; j < 4; j += 2 {
					if byte(ch[j]) == e || byte(ch[j+1]) == e {
						ch[j]++
						ch[j+1]--
						again = true
					}
				}
			}
		}
		for j := 0; j < 4; j++ {
			asc[4*j+i] = byte(ch[j])
		}
	}

	var out [16]byte
	for i := range out {
		out[i] = asc[(i+15)%16]
	}
	return string(out[:])
}

// Decode reverses Encode, returning the ones' complement sum the string
// contributes over its Zero baseline. ok is false for strings that are not
// a valid encoding.
func Decode(s string) (sum uint32, ok bool) {
	if len(s) != len(Zero) {
		return 0, false
	}
	var asc [16]byte
	for i := 0; i < 16; i++ {
		c := s[(i+1)%16]
		if c < '0' || c > 'r' || isExcluded(c) {
			return 0, false
		}
		asc[i] = c - '0'
	}
	return Sum(asc[:], 0), true
}
