package dtype

import (
	"encoding/binary"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	binaryFormatRe = regexp.MustCompile(`^([0-9]*)([LXBIJKAEDCMPQ])(?:([LXBIJKAEDCM])(?:\(([0-9]+)\))?)?$`)
	asciiFormatRe  = regexp.MustCompile(`^([AIFED])([0-9]+)(?:\.([0-9]+))?$`)
)

// BinaryFormat is a parsed binary table TFORM value.
type BinaryFormat struct {
	Repeat int
	Code   byte
	// Elem is the element code of a P or Q array descriptor.
	Elem byte
	// Max is the optional maximum array length of a descriptor.
	Max int
}

// ParseBinaryFormat parses a binary table TFORM value such as "1J", "20A",
// "16X" or "1PE(100)". A missing repeat count means 1.
func ParseBinaryFormat(s string) (BinaryFormat, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	m := binaryFormatRe.FindStringSubmatch(text)
	if m == nil {
		return BinaryFormat{}, &DecodeError{Format: s, Msg: "unrecognized binary table format"}
	}
	f := BinaryFormat{Repeat: 1, Code: m[2][0]}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return BinaryFormat{}, &DecodeError{Format: s, Msg: "bad repeat count"}
		}
		// Row widths are bounded by NAXIS1, which must fit an int32.
		if n > math.MaxInt32/max(codeSize(f.Code), 1) {
			return BinaryFormat{}, &DecodeError{Format: s, Msg: "repeat count too large"}
		}
		f.Repeat = n
	}
	if f.IsDescriptor() {
		if m[3] == "" {
			return BinaryFormat{}, &DecodeError{Format: s, Msg: "array descriptor without element type"}
		}
		f.Elem = m[3][0]
		if m[4] != "" {
			f.Max, _ = strconv.Atoi(m[4])
		}
	} else if m[3] != "" {
		return BinaryFormat{}, &DecodeError{Format: s, Msg: "element type on a non-descriptor format"}
	}
	return f, nil
}

// IsDescriptor reports whether the column holds variable-length array
// descriptors pointing into the heap.
func (f BinaryFormat) IsDescriptor() bool {
	return f.Code == 'P' || f.Code == 'Q'
}

// Width returns the number of bytes the column occupies in a row.
func (f BinaryFormat) Width() int {
	if f.Code == 'X' {
		return (f.Repeat + 7) / 8
	}
	return f.Repeat * codeSize(f.Code)
}

// ElemSize returns the width in bytes of one array element stored in the
// heap for descriptor columns.
func (f BinaryFormat) ElemSize() int {
	return codeSize(f.Elem)
}

func (f BinaryFormat) String() string {
	s := strconv.Itoa(f.Repeat) + string(f.Code)
	if f.IsDescriptor() {
		s += string(f.Elem)
		if f.Max > 0 {
			s += "(" + strconv.Itoa(f.Max) + ")"
		}
	}
	return s
}

func codeSize(code byte) int {
	switch code {
	case 'L', 'X', 'B', 'A':
		return 1
	case 'I':
		return 2
	case 'J', 'E':
		return 4
	case 'K', 'D', 'C', 'P':
		return 8
	case 'M', 'Q':
		return 16
	default:
		return 0
	}
}

// Descriptor decodes the (count, heap offset) pair of a P or Q cell.
func (f BinaryFormat) Descriptor(data []byte) (count, offset int64) {
	if f.Code == 'Q' {
		return int64(binary.BigEndian.Uint64(data)), int64(binary.BigEndian.Uint64(data[8:]))
	}
	return int64(int32(binary.BigEndian.Uint32(data))), int64(int32(binary.BigEndian.Uint32(data[4:])))
}

// Decode decodes one fixed-width cell. Repeat 1 numeric and logical cells
// yield scalars, larger repeats yield slices. A columns yield a string with
// trailing spaces and NULs removed, X columns a []bool of Repeat bits.
// Descriptor columns are resolved by the caller; see DecodeArray.
func (f BinaryFormat) Decode(data []byte) (any, error) {
	if len(data) < f.Width() {
		return nil, &DecodeError{Format: f.String(), Msg: "cell shorter than column width"}
	}
	switch f.Code {
	case 'A':
		return strings.TrimRight(string(data[:f.Repeat]), " \x00"), nil
	case 'X':
		bits := make([]bool, f.Repeat)
		for i := range bits {
			bits[i] = data[i/8]&(0x80>>(i%8)) != 0
		}
		return bits, nil
	case 'P', 'Q':
		return nil, &DecodeError{Format: f.String(), Msg: "descriptor cells must be resolved against the heap"}
	}
	v, err := DecodeArray(f.Code, f.Repeat, data)
	if err != nil {
		return nil, err
	}
	if f.Repeat == 1 {
		return scalar(v), nil
	}
	return v, nil
}

// DecodeArray decodes n consecutive elements of the given type code into a
// typed slice. L yields []bool, A a string.
func DecodeArray(code byte, n int, data []byte) (any, error) {
	size := codeSize(code)
	if size == 0 || code == 'X' || code == 'P' || code == 'Q' {
		return nil, &DecodeError{Format: string(code), Msg: "unsupported element type"}
	}
	if n < 0 || n > len(data)/size {
		return nil, &DecodeError{Format: string(code), Msg: "array extends past available bytes"}
	}
	be := binary.BigEndian
	switch code {
	case 'L':
		out := make([]bool, n)
		for i := range out {
			out[i] = data[i] == 'T'
		}
		return out, nil
	case 'A':
		return strings.TrimRight(string(data[:n]), " \x00"), nil
	case 'B':
		return append([]uint8(nil), data[:n]...), nil
	case 'I':
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(be.Uint16(data[i*2:]))
		}
		return out, nil
	case 'J':
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(be.Uint32(data[i*4:]))
		}
		return out, nil
	case 'K':
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(be.Uint64(data[i*8:]))
		}
		return out, nil
	case 'E':
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(be.Uint32(data[i*4:]))
		}
		return out, nil
	case 'D':
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(be.Uint64(data[i*8:]))
		}
		return out, nil
	case 'C':
		out := make([]complex64, n)
		for i := range out {
			re := math.Float32frombits(be.Uint32(data[i*8:]))
			im := math.Float32frombits(be.Uint32(data[i*8+4:]))
			out[i] = complex(re, im)
		}
		return out, nil
	default: // 'M'
		out := make([]complex128, n)
		for i := range out {
			re := math.Float64frombits(be.Uint64(data[i*16:]))
			im := math.Float64frombits(be.Uint64(data[i*16+8:]))
			out[i] = complex(re, im)
		}
		return out, nil
	}
}

func scalar(v any) any {
	switch s := v.(type) {
	case []bool:
		return s[0]
	case []uint8:
		return s[0]
	case []int16:
		return s[0]
	case []int32:
		return s[0]
	case []int64:
		return s[0]
	case []float32:
		return s[0]
	case []float64:
		return s[0]
	case []complex64:
		return s[0]
	case []complex128:
		return s[0]
	default:
		return v
	}
}

// ASCIIFormat is a parsed ASCII table TFORM value.
type ASCIIFormat struct {
	Code     byte
	Width    int
	Decimals int
}

// ParseASCIIFormat parses an ASCII table TFORM value such as "A8", "I6" or
// "E15.7".
func ParseASCIIFormat(s string) (ASCIIFormat, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	m := asciiFormatRe.FindStringSubmatch(text)
	if m == nil {
		return ASCIIFormat{}, &DecodeError{Format: s, Msg: "unrecognized ASCII table format"}
	}
	f := ASCIIFormat{Code: m[1][0]}
	f.Width, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		f.Decimals, _ = strconv.Atoi(m[3])
	}
	if f.Width == 0 {
		return ASCIIFormat{}, &DecodeError{Format: s, Msg: "zero field width"}
	}
	return f, nil
}

func (f ASCIIFormat) String() string {
	s := string(f.Code) + strconv.Itoa(f.Width)
	if f.Code != 'A' && f.Code != 'I' {
		s += "." + strconv.Itoa(f.Decimals)
	}
	return s
}

// Decode decodes one ASCII table field. A yields a string, I an int64 and
// F, E and D a float64. A numeric field without a decimal point has
// Decimals implied digits after it. A blank numeric field decodes to nil.
func (f ASCIIFormat) Decode(field []byte) (any, error) {
	if f.Code == 'A' {
		return strings.TrimRight(string(field), " "), nil
	}
	text := strings.TrimSpace(string(field))
	if text == "" {
		return nil, nil
	}
	if f.Code == 'I' {
		n, err := strconv.ParseInt(strings.TrimPrefix(text, "+"), 10, 64)
		if err != nil {
			return nil, &DecodeError{Format: f.String(), Msg: "bad integer " + strconv.Quote(text)}
		}
		return n, nil
	}

	norm := strings.NewReplacer("D", "E", "d", "e").Replace(text)
	v, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil, &DecodeError{Format: f.String(), Msg: "bad number " + strconv.Quote(text)}
	}
	if f.Decimals > 0 && !strings.Contains(text, ".") {
		mant, exp, hasExp := strings.Cut(strings.ToUpper(norm), "E")
		m, err := strconv.ParseFloat(mant, 64)
		if err != nil {
			return nil, &DecodeError{Format: f.String(), Msg: "bad number " + strconv.Quote(text)}
		}
		v = m / math.Pow10(f.Decimals)
		if hasExp {
			e, err := strconv.Atoi(exp)
			if err != nil {
				return nil, &DecodeError{Format: f.String(), Msg: "bad exponent " + strconv.Quote(text)}
			}
			v *= math.Pow10(e)
		}
	}
	return v, nil
}

// ToFloat64 converts a decoded scalar cell to float64. ok is false for
// strings, slices and nil.
func ToFloat64(v any) (f float64, ok bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case uint8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// ToInt64 converts a decoded integer scalar cell to int64.
func ToInt64(v any) (i int64, ok bool) {
	switch x := v.(type) {
	case uint8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	default:
		return 0, false
	}
}
