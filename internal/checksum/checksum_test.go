package checksum

import "testing"

func TestSumFoldsCarries(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"one word", []byte{0x01, 0x02, 0x03, 0x04}, 0x01020304},
		{"carry wraps", []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x01}, 0x00000001},
		{"low carry into high", []byte{0x00, 0x00, 0xff, 0xff, 0x00, 0x00, 0x00, 0x02}, 0x00010001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.data, 0); got != tt.want {
				t.Errorf("Sum = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestSumIsIncremental(t *testing.T) {
	data := make([]byte, 2880*3)
	for i := range data {
		data[i] = byte(i * 7)
	}
	whole := Sum(data, 0)
	split := Sum(data[2880:], Sum(data[:2880], 0))
	if whole != split {
		t.Errorf("split sum %#08x != whole %#08x", split, whole)
	}
	if added := Add(Sum(data[:2880], 0), Sum(data[2880:], 0)); added != whole {
		t.Errorf("Add = %#08x, want %#08x", added, whole)
	}
}

func TestEncodeCompletesSum(t *testing.T) {
	for _, sum := range []uint32{0, 1, 0x12345678, 0xdeadbeef, 0xfffffffe} {
		enc := Encode(sum)
		if len(enc) != 16 {
			t.Fatalf("Encode(%#x) = %q, want 16 characters", sum, enc)
		}
		for i := 0; i < len(enc); i++ {
			c := enc[i]
			if c < '0' || c > 'r' || isExcluded(c) {
				t.Fatalf("Encode(%#x) = %q has invalid character %q", sum, enc, c)
			}
		}

		delta, ok := Decode(enc)
		if !ok {
			t.Fatalf("Decode(%q) failed", enc)
		}
		if got := Add(sum, delta); got != Valid {
			t.Errorf("sum %#08x + encoded %#08x = %#08x, want %#08x", sum, delta, got, Valid)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, s := range []string{"", "short", "000000000000000:", "00000000000000000"} {
		if _, ok := Decode(s); ok {
			t.Errorf("Decode(%q) succeeded", s)
		}
	}
}
