package card

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// Size is the length of one header record.
	Size = 80
	// KeywordSize is the width of the keyword field.
	KeywordSize = 8

	valueStart = 10
)

var (
	integerRe = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatRe   = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([EeDd][+-]?[0-9]+)?$`)
)

// Lexer parses card records.
type Lexer struct {
	// Strict rejects lowercase keyword letters instead of accepting them.
	Strict bool
}

// Parse lexes one record with the default, tolerant lexer.
func Parse(rec []byte) (Card, error) {
	return Lexer{}.Parse(rec)
}

// Parse lexes exactly one 80-byte record.
func (l Lexer) Parse(rec []byte) (Card, error) {
	if len(rec) != Size {
		return Card{}, &LexError{Offset: min(len(rec), Size), Msg: "record is not 80 bytes"}
	}

	kw, err := l.keyword(rec[:KeywordSize])
	if err != nil {
		return Card{}, err
	}

	c := Card{keyword: kw, raw: append([]byte(nil), rec...)}

	switch upper := strings.ToUpper(kw); {
	case upper == "END", upper == "COMMENT", upper == "HISTORY", upper == "":
		c.comment = decodeText(trimRight(rec[KeywordSize:]))
	case upper == "CONTINUE":
		v, comment, err := parseValue(rec, KeywordSize)
		if err != nil {
			err.(*LexError).Keyword = kw
			return Card{}, err
		}
		if v.kind == KindString {
			v.kind = KindContinue
		}
		c.value, c.comment, c.hasValue = v, comment, true
	case rec[8] == '=' && rec[9] == ' ':
		v, comment, err := parseValue(rec, valueStart)
		if err != nil {
			err.(*LexError).Keyword = kw
			return Card{}, err
		}
		c.value, c.comment, c.hasValue = v, comment, true
	default:
		c.comment = decodeText(trimRight(rec[KeywordSize:]))
	}
	return c, nil
}

// keyword validates and trims the keyword field.
func (l Lexer) keyword(field []byte) (string, error) {
	kw := strings.TrimRight(string(field), " ")
	for i := 0; i < len(kw); i++ {
		c := kw[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		case c >= 'a' && c <= 'z' && !l.Strict:
		default:
			return "", &LexError{Offset: i, Keyword: kw, Msg: "invalid keyword character"}
		}
	}
	return kw, nil
}

// parseValue lexes the value field starting at start and the comment after it.
func parseValue(rec []byte, start int) (Value, string, error) {
	i := skipSpaces(rec, start)
	if i == Size {
		return Undefined(), "", nil
	}

	switch rec[i] {
	case '/':
		return Undefined(), comment(rec[i+1:]), nil
	case '\'':
		s, next, err := parseString(rec, i)
		if err != nil {
			return Value{}, "", err
		}
		j := skipSpaces(rec, next)
		if j == Size {
			return String(s), "", nil
		}
		if rec[j] == '/' {
			return String(s), comment(rec[j+1:]), nil
		}
		// Stray text after the closing quote: keep the field as opaque text.
		end := Size
		if slash := strings.IndexByte(string(rec[j:]), '/'); slash >= 0 {
			end = j + slash
		}
		v := Opaque(decodeText(trimRight(rec[i:end])))
		if end == Size {
			return v, "", nil
		}
		return v, comment(rec[end+1:]), nil
	}

	end := Size
	if slash := strings.IndexByte(string(rec[i:]), '/'); slash >= 0 {
		end = i + slash
	}
	v := Literal(decodeText(rec[i:end]))
	if end == Size {
		return v, "", nil
	}
	return v, comment(rec[end+1:]), nil
}

// parseString reads a quoted string starting at the opening quote. It
// returns the content and the index just past the closing quote.
func parseString(rec []byte, open int) (string, int, error) {
	var sb []byte
	j := open + 1
	for {
		if j >= Size {
			return "", 0, &LexError{Offset: open, Msg: "unterminated string"}
		}
		if rec[j] == '\'' {
			if j+1 < Size && rec[j+1] == '\'' {
				sb = append(sb, '\'')
				j += 2
				continue
			}
			j++
			break
		}
		sb = append(sb, rec[j])
		j++
	}
	// Trailing spaces in a string are not significant; leading ones are.
	return decodeText(trimRight(sb)), j, nil
}

func comment(b []byte) string {
	return strings.TrimSpace(decodeText(b))
}

func skipSpaces(rec []byte, i int) int {
	for i < len(rec) && rec[i] == ' ' {
		i++
	}
	return i
}

func trimRight(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return b[:end]
}

// decodeText converts header text to a string, decoding bytes outside
// printable ASCII as ISO-8859-1.
func decodeText(b []byte) string {
	ascii := true
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
