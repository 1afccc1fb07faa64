package dtype

import "fmt"

// DecodeError reports a column format that cannot be parsed or a cell that
// cannot be decoded with it.
type DecodeError struct {
	// Column is the 1-based column number, or 0 when unknown.
	Column int
	Format string
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("column %d format %q: %s", e.Column, e.Format, e.Msg)
	}
	return fmt.Sprintf("format %q: %s", e.Format, e.Msg)
}
