package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Scaling maps stored values to physical values.
type Scaling struct {
	Zero  float64
	Scale float64
	// Blank is the integer sentinel for undefined elements when HasBlank
	// is set. It is ignored for floating point data.
	Blank    int64
	HasBlank bool
}

// Identity returns the scaling of a header without BZERO or BSCALE.
func Identity() Scaling {
	return Scaling{Scale: 1}
}

// IsIdentity reports whether physical values equal raw values.
func (s Scaling) IsIdentity() bool {
	return s.Scale == 1 && s.Zero == 0
}

// Physical applies BZERO + BSCALE * raw.
func (s Scaling) Physical(raw float64) float64 {
	if s.IsIdentity() {
		return raw
	}
	return s.Zero + s.Scale*raw
}

// Element is one decoded image value. Elements are comparable; decoding
// the same bytes twice yields equal Elements.
type Element struct {
	bitpix    Bitpix
	ival      int64
	raw       float64
	phys      float64
	undefined bool
}

// Decode decodes the element stored big-endian at the start of data.
func Decode(b Bitpix, s Scaling, data []byte) Element {
	e := Element{bitpix: b}
	switch b {
	case Uint8:
		e.ival = int64(data[0])
	case Int16:
		e.ival = int64(int16(binary.BigEndian.Uint16(data)))
	case Int32:
		e.ival = int64(int32(binary.BigEndian.Uint32(data)))
	case Int64:
		e.ival = int64(binary.BigEndian.Uint64(data))
	case Float32:
		e.raw = float64(math.Float32frombits(binary.BigEndian.Uint32(data)))
	case Float64:
		e.raw = math.Float64frombits(binary.BigEndian.Uint64(data))
	}

	if b.IsFloat() {
		e.undefined = math.IsNaN(e.raw)
	} else {
		e.raw = float64(e.ival)
		e.undefined = s.HasBlank && e.ival == s.Blank
	}
	if e.undefined {
		e.phys = math.NaN()
		return e
	}
	e.phys = s.Physical(e.raw)
	return e
}

// Bitpix returns the stored element type.
func (e Element) Bitpix() Bitpix { return e.bitpix }

// Raw returns the stored value before scaling.
func (e Element) Raw() float64 { return e.raw }

// Int returns the stored integer. ok is false for floating point data.
func (e Element) Int() (v int64, ok bool) {
	return e.ival, !e.bitpix.IsFloat()
}

// Float returns the physical value, NaN when undefined.
func (e Element) Float() float64 { return e.phys }

// Undefined reports whether the element matched BLANK or is NaN.
func (e Element) Undefined() bool { return e.undefined }

func (e Element) String() string {
	if e.undefined {
		return "undefined"
	}
	return fmt.Sprint(e.phys)
}

// DecodeFloat64 decodes len(dst) consecutive elements into physical values.
// Undefined elements become NaN.
func DecodeFloat64(b Bitpix, s Scaling, data []byte, dst []float64) error {
	size := b.Size()
	if len(data) < len(dst)*size {
		return fmt.Errorf("need %d bytes for %d elements, have %d", len(dst)*size, len(dst), len(data))
	}

	// Fast path: no sentinel and no scaling.
	if s.IsIdentity() && (!s.HasBlank || b.IsFloat()) {
		for i := range dst {
			dst[i] = rawFloat(b, data[i*size:])
		}
		return nil
	}

	for i := range dst {
		dst[i] = Decode(b, s, data[i*size:]).phys
	}
	return nil
}

func rawFloat(b Bitpix, data []byte) float64 {
	switch b {
	case Uint8:
		return float64(data[0])
	case Int16:
		return float64(int16(binary.BigEndian.Uint16(data)))
	case Int32:
		return float64(int32(binary.BigEndian.Uint32(data)))
	case Int64:
		return float64(int64(binary.BigEndian.Uint64(data)))
	case Float32:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(data)))
	default:
		return math.Float64frombits(binary.BigEndian.Uint64(data))
	}
}
