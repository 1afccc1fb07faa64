package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// Convert converts n raw big-endian elements to Go values without scaling.
// dest must be a pointer to a slice; it is grown to n elements if shorter.
// Any numeric element type is accepted.
func Convert(b Bitpix, data []byte, n int, dest any) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice, got %T", dest)
	}
	size := b.Size()
	if size == 0 {
		return fmt.Errorf("unsupported BITPIX %d", int(b))
	}
	if len(data) < n*size {
		return fmt.Errorf("need %d bytes for %d elements, have %d", n*size, n, len(data))
	}

	slice := destVal.Elem()
	if slice.Len() < n {
		slice.Set(reflect.MakeSlice(slice.Type(), n, n))
	}

	// Fast path: bytes into bytes.
	if b == Uint8 && slice.Type().Elem().Kind() == reflect.Uint8 {
		reflect.Copy(slice, reflect.ValueOf(data[:n]))
		return nil
	}

	elemType := slice.Type().Elem()
	switch elemType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if b.IsFloat() {
			return fmt.Errorf("cannot convert %s data to %v", b, elemType)
		}
		for i := 0; i < n; i++ {
			slice.Index(i).SetInt(rawInt(b, data[i*size:]))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if b.IsFloat() {
			return fmt.Errorf("cannot convert %s data to %v", b, elemType)
		}
		for i := 0; i < n; i++ {
			slice.Index(i).SetUint(uint64(rawInt(b, data[i*size:])))
		}
	case reflect.Float32, reflect.Float64:
		for i := 0; i < n; i++ {
			slice.Index(i).SetFloat(rawFloat(b, data[i*size:]))
		}
	default:
		return fmt.Errorf("unsupported destination element type %v", elemType)
	}
	return nil
}

// ConvertToSlice converts n raw elements to a newly allocated slice.
func ConvertToSlice[T any](b Bitpix, data []byte, n int) ([]T, error) {
	result := make([]T, n)
	if err := Convert(b, data, n, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func rawInt(b Bitpix, data []byte) int64 {
	switch b {
	case Uint8:
		return int64(data[0])
	case Int16:
		return int64(int16(binary.BigEndian.Uint16(data)))
	case Int32:
		return int64(int32(binary.BigEndian.Uint32(data)))
	default:
		return int64(binary.BigEndian.Uint64(data))
	}
}

// Encode converts a slice of Go numbers to big-endian elements of type b.
// Values are converted, not range-checked.
func Encode(b Bitpix, src any) ([]byte, error) {
	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if srcVal.Kind() != reflect.Slice && srcVal.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot encode %T, want a slice", src)
	}

	size := b.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported BITPIX %d", int(b))
	}
	n := srcVal.Len()
	data := make([]byte, n*size)

	for i := 0; i < n; i++ {
		elem := srcVal.Index(i)
		out := data[i*size:]

		var iv int64
		var fv float64
		switch elem.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			iv = elem.Int()
			fv = float64(iv)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			iv = int64(elem.Uint())
			fv = float64(elem.Uint())
		case reflect.Float32, reflect.Float64:
			fv = elem.Float()
			iv = int64(fv)
		default:
			return nil, fmt.Errorf("cannot encode %v as %s", elem.Kind(), b)
		}

		switch b {
		case Uint8:
			out[0] = byte(iv)
		case Int16:
			binary.BigEndian.PutUint16(out, uint16(iv))
		case Int32:
			binary.BigEndian.PutUint32(out, uint32(iv))
		case Int64:
			binary.BigEndian.PutUint64(out, uint64(iv))
		case Float32:
			binary.BigEndian.PutUint32(out, math.Float32bits(float32(fv)))
		case Float64:
			binary.BigEndian.PutUint64(out, math.Float64bits(fv))
		}
	}
	return data, nil
}
