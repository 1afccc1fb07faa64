// Package fits reads FITS files lazily.
package fits

import (
	"errors"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
	"github.com/robert-malhotra/go-fits/internal/source"
)

// Common errors
var (
	ErrNotFITS  = errors.New("not a FITS file")
	ErrNotFound = errors.New("HDU not found")
	ErrNotImage = errors.New("HDU is not an image")
	ErrNotTable = errors.New("HDU is not a table")
	ErrClosed   = source.ErrClosed
)

var (
	// ErrNoChecksum is returned by VerifyChecksum when the header has
	// neither DATASUM nor CHECKSUM.
	ErrNoChecksum = errors.New("HDU has no checksum keywords")
	// ErrChecksum is returned by VerifyChecksum when a stored checksum does
	// not match the bytes.
	ErrChecksum = errors.New("checksum mismatch")
)

// Structural error kinds, for use with errors.Is.
var (
	ErrMissingEnd        = header.ErrMissingEnd
	ErrMissingKeyword    = header.ErrMissingKeyword
	ErrDuplicateKeyword  = header.ErrDuplicateKeyword
	ErrMisorderedKeyword = header.ErrMisorderedKeyword
	ErrAxisCountMismatch = header.ErrAxisCountMismatch
	ErrUnsupportedBitpix = header.ErrUnsupportedBitpix
	ErrInvalidValue      = header.ErrInvalidValue
	ErrMisaligned        = header.ErrMisaligned
	ErrKeywordNotFound   = header.ErrKeywordNotFound
)

type (
	// LexError reports a malformed card and the byte offset of the fault.
	LexError = card.LexError
	// StructuralError reports a header violating the mandatory layout.
	StructuralError = header.StructuralError
	// BoundsError reports an index outside the declared dimensions.
	BoundsError = layout.BoundsError
	// SourceError is a read failure of the underlying source.
	SourceError = source.Error
	// TruncatedError reports a source shorter than the header declares.
	TruncatedError = source.TruncatedError
	// DecodeError reports an unrecognized column format or bad cell.
	DecodeError = dtype.DecodeError
)
