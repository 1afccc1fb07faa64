package card

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	fixedValueEnd = 30
	minStringLen  = 8
)

// format renders a synthetic card in fixed format.
func (c Card) format() []byte {
	rec := make([]byte, 0, Size)
	rec = append(rec, pad(c.keyword, KeywordSize)...)

	switch {
	case c.keyword == "CONTINUE" && c.hasValue:
		rec = append(rec, ' ', ' ')
		rec = append(rec, c.valueField()...)
		rec = appendComment(rec, c.comment)
	case c.hasValue:
		rec = append(rec, '=', ' ')
		rec = append(rec, c.valueField()...)
		rec = appendComment(rec, c.comment)
	default:
		rec = append(rec, encodeText(c.comment)...)
	}

	if len(rec) > Size {
		rec = rec[:Size]
	}
	for len(rec) < Size {
		rec = append(rec, ' ')
	}
	return rec
}

// valueField renders the value as it appears from column 11.
func (c Card) valueField() string {
	switch c.value.kind {
	case KindString, KindContinue:
		return quote(encodeText(c.value.text))
	default:
		return leftPad(c.value.text, fixedValueEnd-valueStart)
	}
}

func appendComment(rec []byte, comment string) []byte {
	if comment == "" {
		return rec
	}
	return append(append(rec, " / "...), encodeText(comment)...)
}

// ValidateText checks that s can be written to a record: every rune must be
// printable and within ISO-8859-1.
func ValidateText(s string) error {
	for _, r := range s {
		switch {
		case r < 0x20 || r >= 0x7f && r < 0xa0:
			return fmt.Errorf("%w: control character %U", ErrInvalidText, r)
		case r > 0xff:
			return fmt.Errorf("%w: %q is outside ISO-8859-1", ErrInvalidText, r)
		}
	}
	return nil
}

// encodeText converts validated text to its single-byte record form.
func encodeText(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			out, err := charmap.ISO8859_1.NewEncoder().String(s)
			if err != nil {
				return s
			}
			return out
		}
	}
	return s
}

// quote encodes s as a FITS string, doubling embedded quotes and padding
// short strings to eight characters.
func quote(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if len(s) < minStringLen {
		s = pad(s, minStringLen)
	}
	return "'" + s + "'"
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// LongString returns the cards needed to carry s under keyword, using the
// CONTINUE convention when s does not fit in a single record. The comment
// is attached to the last card.
func LongString(keyword, s, comment string) ([]Card, error) {
	c, err := New(keyword, String(s), comment)
	if err == nil {
		return []Card{c}, nil
	}
	if !errors.Is(err, ErrValueTooLong) {
		return nil, err
	}

	// Room for the quoted text minus both quotes and the '&' marker.
	const room = Size - valueStart - 3

	var cards []Card
	rest := s
	for first := true; ; first = false {
		chunk, remain := splitEncoded(rest, room)
		kw, kind := keyword, KindString
		if !first {
			kw, kind = "CONTINUE", KindContinue
		}
		text := chunk
		if remain != "" {
			text += "&"
		}
		c := Card{keyword: kw, value: Value{kind: kind, text: text}, hasValue: true}
		if remain == "" {
			if len(c.valueField())+3+len(encodeText(comment)) <= Size-valueStart {
				c.comment = comment
			}
			cards = append(cards, c)
			break
		}
		cards = append(cards, c)
		rest = remain
	}
	return cards, nil
}

// splitEncoded returns the longest prefix of s whose quoted encoding fits
// in room bytes, never separating a doubled quote or a multi-byte rune.
func splitEncoded(s string, room int) (string, string) {
	n := 0
	for i, r := range s {
		w := 1
		if r == '\'' {
			w = 2
		}
		if n+w > room {
			return s[:i], s[i:]
		}
		n += w
	}
	return s, ""
}
