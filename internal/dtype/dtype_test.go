package dtype

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestBitpixSize(t *testing.T) {
	tests := []struct {
		bitpix   Bitpix
		size     int
		goType   reflect.Type
		floating bool
	}{
		{Uint8, 1, reflect.TypeOf(uint8(0)), false},
		{Int16, 2, reflect.TypeOf(int16(0)), false},
		{Int32, 4, reflect.TypeOf(int32(0)), false},
		{Int64, 8, reflect.TypeOf(int64(0)), false},
		{Float32, 4, reflect.TypeOf(float32(0)), true},
		{Float64, 8, reflect.TypeOf(float64(0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.bitpix.String(), func(t *testing.T) {
			b, err := ParseBitpix(int64(tt.bitpix))
			if err != nil {
				t.Fatalf("ParseBitpix failed: %v", err)
			}
			if b.Size() != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, b.Size())
			}
			if b.GoType() != tt.goType {
				t.Errorf("expected %v, got %v", tt.goType, b.GoType())
			}
			if b.IsFloat() != tt.floating {
				t.Errorf("expected IsFloat %v", tt.floating)
			}
		})
	}

	if _, err := ParseBitpix(24); err == nil {
		t.Error("expected error for BITPIX 24")
	}
}

func TestDecodeScaled(t *testing.T) {
	data, err := Encode(Int16, []int16{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	s := Scaling{Zero: 100, Scale: 2}

	want := []float64{102, 104, 106, 108}
	for i, w := range want {
		e := Decode(Int16, s, data[i*2:])
		if e.Float() != w {
			t.Errorf("element %d: expected %v, got %v", i, w, e.Float())
		}
		if raw, ok := e.Int(); !ok || raw != int64(i+1) {
			t.Errorf("element %d: expected raw %d, got %d", i, i+1, raw)
		}
	}

	got := make([]float64, 4)
	if err := DecodeFloat64(Int16, s, data, got); err != nil {
		t.Fatalf("DecodeFloat64 failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDecodeBlank(t *testing.T) {
	data, _ := Encode(Int32, []int32{-1, 7})
	s := Scaling{Scale: 1, Blank: -1, HasBlank: true}

	e := Decode(Int32, s, data)
	if !e.Undefined() || !math.IsNaN(e.Float()) {
		t.Errorf("expected undefined element, got %v", e)
	}
	if e := Decode(Int32, s, data[4:]); e.Undefined() || e.Float() != 7 {
		t.Errorf("expected 7, got %v", e)
	}

	// BLANK does not apply to floating point data.
	fdata, _ := Encode(Float32, []float32{-1, float32(math.NaN())})
	if e := Decode(Float32, s, fdata); e.Undefined() {
		t.Error("BLANK must be ignored for float data")
	}
	if e := Decode(Float32, s, fdata[4:]); !e.Undefined() {
		t.Error("NaN must decode as undefined")
	}
}

func TestDecodeIdempotent(t *testing.T) {
	data, _ := Encode(Float64, []float64{math.Pi})
	a := Decode(Float64, Scaling{Zero: 1, Scale: 3}, data)
	b := Decode(Float64, Scaling{Zero: 1, Scale: 3}, data)
	if a != b {
		t.Errorf("expected identical elements, got %v and %v", a, b)
	}
}

func TestConvert(t *testing.T) {
	data, _ := Encode(Int16, []int{-5, 300})

	var ints []int32
	if err := Convert(Int16, data, 2, &ints); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !reflect.DeepEqual(ints, []int32{-5, 300}) {
		t.Errorf("expected [-5 300], got %v", ints)
	}

	floats, err := ConvertToSlice[float64](Int16, data, 2)
	if err != nil {
		t.Fatalf("ConvertToSlice failed: %v", err)
	}
	if !reflect.DeepEqual(floats, []float64{-5, 300}) {
		t.Errorf("expected [-5 300], got %v", floats)
	}

	var bytes []byte
	if err := Convert(Uint8, []byte{1, 2, 3}, 3, &bytes); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !reflect.DeepEqual(bytes, []byte{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", bytes)
	}

	fdata, _ := Encode(Float32, []float32{1.5})
	if err := Convert(Float32, fdata, 1, &ints); err == nil {
		t.Error("expected error converting float data to integers")
	}
	if err := Convert(Int16, data, 3, &ints); err == nil {
		t.Error("expected error for short data")
	}
	if err := Convert(Int16, data, 2, ints); err == nil {
		t.Error("expected error for non-pointer dest")
	}
}

func TestParseBinaryFormat(t *testing.T) {
	tests := []struct {
		in    string
		want  BinaryFormat
		width int
	}{
		{"J", BinaryFormat{Repeat: 1, Code: 'J'}, 4},
		{"20A", BinaryFormat{Repeat: 20, Code: 'A'}, 20},
		{"13X", BinaryFormat{Repeat: 13, Code: 'X'}, 2},
		{"2M", BinaryFormat{Repeat: 2, Code: 'M'}, 32},
		{"1PE(100)", BinaryFormat{Repeat: 1, Code: 'P', Elem: 'E', Max: 100}, 8},
		{"QD", BinaryFormat{Repeat: 1, Code: 'Q', Elem: 'D'}, 16},
		{" 3k ", BinaryFormat{Repeat: 3, Code: 'K'}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinaryFormat(tt.in)
			if err != nil {
				t.Fatalf("ParseBinaryFormat failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if got.Width() != tt.width {
				t.Errorf("expected width %d, got %d", tt.width, got.Width())
			}
		})
	}

	for _, bad := range []string{"", "Z", "1P", "2JE", "A3", "4611686018427387904J", "2147483648X", "99999999999999999999B"} {
		_, err := ParseBinaryFormat(bad)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%q: expected DecodeError, got %v", bad, err)
		}
	}
}

func TestBinaryDecode(t *testing.T) {
	j, _ := ParseBinaryFormat("1J")
	v, err := j.Decode([]byte{0xff, 0xff, 0xff, 0xfe})
	if err != nil || v != int32(-2) {
		t.Errorf("expected int32 -2, got %v (%v)", v, err)
	}

	a, _ := ParseBinaryFormat("6A")
	if v, _ := a.Decode([]byte("abc   ")); v != "abc" {
		t.Errorf("expected abc, got %q", v)
	}

	x, _ := ParseBinaryFormat("10X")
	v, _ = x.Decode([]byte{0xa0, 0x40})
	want := []bool{true, false, true, false, false, false, false, false, false, true}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("expected %v, got %v", want, v)
	}

	l, _ := ParseBinaryFormat("2L")
	if v, _ := l.Decode([]byte("TF")); !reflect.DeepEqual(v, []bool{true, false}) {
		t.Errorf("expected [true false], got %v", v)
	}

	c, _ := ParseBinaryFormat("C")
	cdata, _ := Encode(Float32, []float32{1, -2})
	if v, _ := c.Decode(cdata); v != complex64(complex(1, -2)) {
		t.Errorf("expected (1-2i), got %v", v)
	}

	p, _ := ParseBinaryFormat("PJ")
	n, off := p.Descriptor([]byte{0, 0, 0, 3, 0, 0, 0, 16})
	if n != 3 || off != 16 {
		t.Errorf("expected descriptor (3, 16), got (%d, %d)", n, off)
	}
	if _, err := p.Decode(make([]byte, 8)); err == nil {
		t.Error("expected error decoding descriptor without heap")
	}
}

func TestASCIIFormat(t *testing.T) {
	tests := []struct {
		format string
		field  string
		want   any
	}{
		{"A5", "ab   ", "ab"},
		{"I4", "  42", int64(42)},
		{"I4", "    ", nil},
		{"F8.3", "  12.500", 12.5},
		{"F6.2", "  1234", 12.34},
		{"E10.3", " 1.5E+02", 150.0},
		{"D12.4", "  2.5D-01", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.field, func(t *testing.T) {
			f, err := ParseASCIIFormat(tt.format)
			if err != nil {
				t.Fatalf("ParseASCIIFormat failed: %v", err)
			}
			got, err := f.Decode([]byte(tt.field))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if g, ok := got.(float64); ok {
				if math.Abs(g-tt.want.(float64)) > 1e-12 {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := ParseASCIIFormat("Q4"); err == nil {
		t.Error("expected error for unknown ASCII format")
	}
	f, _ := ParseASCIIFormat("I3")
	if _, err := f.Decode([]byte("x1 ")); err == nil {
		t.Error("expected error for non-numeric integer field")
	}
}

func TestDecodeArrayHugeCount(t *testing.T) {
	_, err := DecodeArray('J', 1<<62, make([]byte, 8))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if _, err := DecodeArray('E', -1, nil); !errors.As(err, &de) {
		t.Errorf("expected DecodeError for a negative count, got %v", err)
	}
}
