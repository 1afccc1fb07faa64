package header

import (
	"errors"
	"fmt"
)

// ErrKeywordNotFound is returned by typed lookups of absent keywords.
var ErrKeywordNotFound = errors.New("keyword not found")

// StructuralKind classifies structural violations.
type StructuralKind int

const (
	MissingEnd StructuralKind = iota + 1
	MissingKeyword
	DuplicateKeyword
	MisorderedKeyword
	AxisCountMismatch
	UnsupportedBitpix
	InvalidValue
	Misaligned
)

func (k StructuralKind) String() string {
	switch k {
	case MissingEnd:
		return "missing END"
	case MissingKeyword:
		return "missing keyword"
	case DuplicateKeyword:
		return "duplicate keyword"
	case MisorderedKeyword:
		return "misordered keyword"
	case AxisCountMismatch:
		return "NAXIS count mismatch"
	case UnsupportedBitpix:
		return "unsupported BITPIX"
	case InvalidValue:
		return "invalid value"
	case Misaligned:
		return "misaligned header"
	default:
		return fmt.Sprintf("StructuralKind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching on the kind of a *StructuralError.
var (
	ErrMissingEnd        = &StructuralError{Kind: MissingEnd}
	ErrMissingKeyword    = &StructuralError{Kind: MissingKeyword}
	ErrDuplicateKeyword  = &StructuralError{Kind: DuplicateKeyword}
	ErrMisorderedKeyword = &StructuralError{Kind: MisorderedKeyword}
	ErrAxisCountMismatch = &StructuralError{Kind: AxisCountMismatch}
	ErrUnsupportedBitpix = &StructuralError{Kind: UnsupportedBitpix}
	ErrInvalidValue      = &StructuralError{Kind: InvalidValue}
	ErrMisaligned        = &StructuralError{Kind: Misaligned}
)

// StructuralError reports a header that violates the mandatory layout.
type StructuralError struct {
	Kind    StructuralKind
	Keyword string
	// Offset is the source offset of the header, or -1 for built headers.
	Offset int64
	Detail string
}

func (e *StructuralError) Error() string {
	msg := e.Kind.String()
	if e.Keyword != "" {
		msg += " " + e.Keyword
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (header at offset %d)", e.Offset)
	}
	return msg
}

// Is matches another *StructuralError of the same kind.
func (e *StructuralError) Is(target error) bool {
	t, ok := target.(*StructuralError)
	return ok && t.Kind == e.Kind
}
