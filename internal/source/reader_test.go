package source

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// failingReaderAt fails every read with err.
type failingReaderAt struct {
	err error
}

func (f failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, f.err
}

func TestMemoryReadAt(t *testing.T) {
	m := Memory{0, 1, 2, 3, 4, 5}

	buf := make([]byte, 3)
	n, err := m.ReadAt(buf, 2)
	if err != nil || n != 3 {
		t.Fatalf("ReadAt = %d, %v", n, err)
	}
	if !bytes.Equal(buf, []byte{2, 3, 4}) {
		t.Errorf("expected [2 3 4], got %v", buf)
	}

	n, err = m.ReadAt(buf, 4)
	if n != 2 || err != io.EOF {
		t.Errorf("short ReadAt = %d, %v; want 2, EOF", n, err)
	}

	size, ok := m.Size()
	if !ok || size != 6 {
		t.Errorf("Size = %d, %v", size, ok)
	}
}

func TestReaderReadExact(t *testing.T) {
	r := NewReader(Memory{0x10, 0x20, 0x30, 0x40})

	data, err := r.ReadExact(1, 2)
	if err != nil {
		t.Fatalf("ReadExact failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x20, 0x30}) {
		t.Errorf("expected [0x20 0x30], got %x", data)
	}

	// Ending exactly at the source end is not truncation.
	if _, err := r.ReadExact(2, 2); err != nil {
		t.Errorf("ReadExact at tail failed: %v", err)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(Memory{1, 2, 3})

	_, err := r.ReadExact(1, 5)
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 1 || te.Want != 5 || te.Got != 2 {
		t.Errorf("unexpected truncation detail: %+v", te)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("TruncatedError should match io.ErrUnexpectedEOF")
	}
}

func TestReaderProviderError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewReader(failingReaderAt{err: boom})

	_, err := r.ReadExact(2880, 80)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Offset != 2880 || se.Length != 80 {
		t.Errorf("unexpected annotation: %+v", se)
	}
	if !errors.Is(err, boom) {
		t.Error("expected wrapped provider error")
	}
}

func TestReaderReadBlock(t *testing.T) {
	r := NewReader(Memory(make([]byte, 100)))

	buf := make([]byte, 80)
	n, err := r.ReadBlock(buf, 60)
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if n != 40 {
		t.Errorf("expected 40 bytes, got %d", n)
	}

	n, err = r.ReadBlock(buf, 200)
	if err != nil || n != 0 {
		t.Errorf("ReadBlock past end = %d, %v", n, err)
	}
}

func TestGuardClose(t *testing.T) {
	closes := 0
	g := NewGuard(Memory{1, 2, 3}, closerFunc(func() error {
		closes++
		return nil
	}))

	buf := make([]byte, 1)
	if _, err := g.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt before close: %v", err)
	}

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if closes != 1 {
		t.Errorf("expected underlying close once, got %d", closes)
	}

	_, err := NewReader(g).ReadExact(0, 1)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestStreamConcurrentReads(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 251)
	}
	s, err := NewStream(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if size, ok := s.Size(); !ok || size != 4096 {
		t.Fatalf("Size = %d, %v", size, ok)
	}

	r := NewReader(s)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			off := int64(g * 200)
			buf, err := r.ReadExact(off, 100)
			if err != nil {
				errs <- err
				return
			}
			for i, b := range buf {
				if b != data[off+int64(i)] {
					errs <- errors.New("interleaved stream read")
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestFromReaderAtUnknownSize(t *testing.T) {
	src := FromReaderAt(bytes.NewReader([]byte("abc")), -1)
	if _, ok := SizeOf(src); ok {
		t.Error("expected unknown size")
	}
	src = FromReaderAt(bytes.NewReader([]byte("abc")), 3)
	if size, ok := SizeOf(src); !ok || size != 3 {
		t.Errorf("SizeOf = %d, %v", size, ok)
	}
}

func TestGunzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	payload := bytes.Repeat([]byte("SIMPLE  =                    T"), 10)
	if _, err := zw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	if !IsGzip(buf.Bytes()) {
		t.Fatal("IsGzip should detect the gzip header")
	}
	if IsGzip(payload) {
		t.Fatal("IsGzip should reject plain FITS text")
	}

	m, err := Gunzip(&buf)
	if err != nil {
		t.Fatalf("Gunzip: %v", err)
	}
	if !bytes.Equal(m, payload) {
		t.Error("inflated payload mismatch")
	}
}

func TestReaderHugeRequest(t *testing.T) {
	r := NewReader(Memory{1, 2, 3})

	_, err := r.ReadExact(1, 1<<40)
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Want != 1<<40 || te.Got != 2 {
		t.Errorf("unexpected truncation detail: %+v", te)
	}
	if _, err := r.ReadExact(1<<62, 1); !errors.As(err, &te) || te.Got != 0 {
		t.Errorf("expected TruncatedError with nothing read, got %v", err)
	}
}

func TestReaderUnknownSizeChunks(t *testing.T) {
	payload := bytes.Repeat([]byte("fits"), (readChunk*5/2)/4)
	r := NewReader(FromReaderAt(bytes.NewReader(payload), -1))

	data, err := r.ReadExact(0, len(payload))
	if err != nil {
		t.Fatalf("ReadExact failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("chunked read mismatch")
	}

	_, err = r.ReadExact(4, 4*readChunk)
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 4 || te.Want != 4*readChunk || te.Got != int64(len(payload)-4) {
		t.Errorf("unexpected truncation detail: %+v", te)
	}
}
