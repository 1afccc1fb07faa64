package dtype

import (
	"fmt"
	"reflect"
)

// Bitpix is the element type declared by the BITPIX keyword.
type Bitpix int

const (
	Uint8   Bitpix = 8
	Int16   Bitpix = 16
	Int32   Bitpix = 32
	Int64   Bitpix = 64
	Float32 Bitpix = -32
	Float64 Bitpix = -64
)

// ParseBitpix validates a BITPIX keyword value.
func ParseBitpix(v int64) (Bitpix, error) {
	switch b := Bitpix(v); b {
	case Uint8, Int16, Int32, Int64, Float32, Float64:
		return b, nil
	default:
		return 0, fmt.Errorf("unsupported BITPIX %d", v)
	}
}

// Size returns the element width in bytes, |BITPIX|/8.
func (b Bitpix) Size() int {
	if b < 0 {
		return int(-b) / 8
	}
	return int(b) / 8
}

// IsFloat reports whether elements are IEEE floating point.
func (b Bitpix) IsFloat() bool {
	return b < 0
}

// GoType returns the Go type that holds one raw element.
func (b Bitpix) GoType() reflect.Type {
	switch b {
	case Uint8:
		return reflect.TypeOf(uint8(0))
	case Int16:
		return reflect.TypeOf(int16(0))
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int64:
		return reflect.TypeOf(int64(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	default:
		return nil
	}
}

func (b Bitpix) String() string {
	if t := b.GoType(); t != nil {
		return t.String()
	}
	return fmt.Sprintf("Bitpix(%d)", int(b))
}
