package card

import (
	"errors"
	"fmt"
)

// Errors returned when building cards.
var (
	ErrInvalidKeyword = errors.New("invalid keyword")
	ErrValueTooLong   = errors.New("value does not fit in one card")
	ErrCommentTooLong = errors.New("comment does not fit in the card")
	// ErrInvalidText is returned for text that cannot be written as
	// ISO-8859-1 or contains control characters.
	ErrInvalidText = errors.New("text not representable in a header card")
)

// LexError describes a malformed card record.
type LexError struct {
	// Base is the absolute source offset of the record, when known.
	Base int64
	// Offset is the offending byte position within the record.
	Offset  int
	Keyword string
	Msg     string
}

// Pos returns the absolute byte offset of the failure.
func (e *LexError) Pos() int64 {
	return e.Base + int64(e.Offset)
}

func (e *LexError) Error() string {
	if e.Keyword != "" {
		return fmt.Sprintf("lex error at byte %d (keyword %q): %s", e.Pos(), e.Keyword, e.Msg)
	}
	return fmt.Sprintf("lex error at byte %d: %s", e.Pos(), e.Msg)
}
