package source

import (
	"errors"
	"fmt"
	"io"
)

// ErrClosed is returned by every read issued after the owning file was closed.
var ErrClosed = errors.New("source is closed")

// Error is an underlying provider failure annotated with the request.
type Error struct {
	Offset int64
	Length int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reading %d bytes at offset %d: %v", e.Length, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TruncatedError reports a source that ends before a length the header
// declared.
type TruncatedError struct {
	Offset int64
	Want   int64
	Got    int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated data: wanted %d bytes at offset %d, source provides %d", e.Want, e.Offset, e.Got)
}

// Unwrap lets callers match truncation with io.ErrUnexpectedEOF.
func (e *TruncatedError) Unwrap() error {
	return io.ErrUnexpectedEOF
}
