package card

import (
	"fmt"
	"strings"
)

// Card is one header record. Cards are immutable; use the With methods to
// derive modified copies.
type Card struct {
	keyword  string
	value    Value
	comment  string
	hasValue bool
	pos      int
	raw      []byte
}

// New builds a valued card. The keyword must be uppercase FITS keyword
// characters and the encoded value must fit in one record.
func New(keyword string, v Value, comment string) (Card, error) {
	if err := ValidateKeyword(keyword); err != nil {
		return Card{}, err
	}
	if v.kind == KindString || v.kind == KindContinue {
		if err := ValidateText(v.text); err != nil {
			return Card{}, fmt.Errorf("%s value: %w", keyword, err)
		}
	}
	if err := ValidateText(comment); err != nil {
		return Card{}, fmt.Errorf("%s comment: %w", keyword, err)
	}
	c := Card{keyword: keyword, value: v, comment: comment, hasValue: true}
	n := valueStart + len(c.valueField())
	if n > Size {
		return Card{}, fmt.Errorf("%w: %s", ErrValueTooLong, keyword)
	}
	if comment != "" && n+len(" / ")+len(encodeText(comment)) > Size {
		return Card{}, fmt.Errorf("%w: %s", ErrCommentTooLong, keyword)
	}
	return c, nil
}

// Commentary builds a card without a value indicator, such as COMMENT,
// HISTORY or a blank keyword.
func Commentary(keyword, text string) (Card, error) {
	if keyword != "" {
		if err := ValidateKeyword(keyword); err != nil {
			return Card{}, err
		}
	}
	if err := ValidateText(text); err != nil {
		return Card{}, fmt.Errorf("%s: %w", keyword, err)
	}
	if len(encodeText(text)) > Size-KeywordSize {
		return Card{}, fmt.Errorf("%w: %s", ErrCommentTooLong, keyword)
	}
	return Card{keyword: keyword, comment: text}, nil
}

// End returns the END card.
func End() Card {
	return Card{keyword: "END"}
}

// ValidateKeyword checks a keyword for programmatic card construction.
func ValidateKeyword(keyword string) error {
	if keyword == "" || len(keyword) > KeywordSize {
		return fmt.Errorf("%w: %q must be 1-%d characters", ErrInvalidKeyword, keyword, KeywordSize)
	}
	for i := 0; i < len(keyword); i++ {
		c := keyword[i]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return fmt.Errorf("%w: %q", ErrInvalidKeyword, keyword)
		}
	}
	return nil
}

// Keyword returns the keyword with trailing spaces removed.
func (c Card) Keyword() string { return c.keyword }

// Value returns the card value. Commentary cards hold an undefined value.
func (c Card) Value() Value { return c.value }

// Comment returns the comment, or the text of a commentary card.
func (c Card) Comment() string { return c.comment }

// HasValue reports whether the card carries a value field.
func (c Card) HasValue() bool { return c.hasValue }

// IsEnd reports whether this is the END card.
func (c Card) IsEnd() bool { return c.Is("END") }

// Is reports whether the card carries keyword, ignoring case.
func (c Card) Is(keyword string) bool { return strings.EqualFold(c.keyword, keyword) }

// Position returns the ordinal of the card within its header.
func (c Card) Position() int { return c.pos }

// WithPosition returns a copy of c at ordinal pos.
func (c Card) WithPosition(pos int) Card {
	c.pos = pos
	return c
}

// Parsed reports whether the card was lexed from a record.
func (c Card) Parsed() bool { return c.raw != nil }

// Bytes returns the 80-byte record. Parsed cards return their original bytes.
func (c Card) Bytes() []byte {
	if c.raw != nil {
		return append([]byte(nil), c.raw...)
	}
	return c.format()
}

func (c Card) String() string {
	return strings.TrimRight(string(c.Bytes()), " ")
}
