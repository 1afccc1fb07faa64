package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindLogical
	KindInteger
	KindFloat
	KindString
	KindContinue
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindContinue:
		return "continue"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is the typed value of a header card. The zero Value is undefined.
type Value struct {
	kind Kind
	text string
}

// Undefined returns a value with no content.
func Undefined() Value {
	return Value{}
}

// Logical returns a T/F value.
func Logical(b bool) Value {
	if b {
		return Value{kind: KindLogical, text: "T"}
	}
	return Value{kind: KindLogical, text: "F"}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, text: strconv.FormatInt(i, 10)}
}

// Float returns a floating-point value. The literal always carries a
// decimal point or an exponent so it re-lexes as a float.
func Float(f float64) Value {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".EIN") {
		s += ".0"
	}
	return Value{kind: KindFloat, text: s}
}

// String returns a character-string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Continue returns the string fragment of a CONTINUE card.
func Continue(s string) Value {
	return Value{kind: KindContinue, text: s}
}

// Opaque returns a value kept verbatim because it matches no FITS literal.
func Opaque(s string) Value {
	return Value{kind: KindOpaque, text: s}
}

// Literal parses a free-format FITS value literal (without string quotes).
func Literal(tok string) Value {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "":
		return Undefined()
	case tok == "T":
		return Logical(true)
	case tok == "F":
		return Logical(false)
	case integerRe.MatchString(tok):
		return Value{kind: KindInteger, text: tok}
	case floatRe.MatchString(tok):
		return Value{kind: KindFloat, text: tok}
	default:
		return Opaque(tok)
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined reports whether the value is empty.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// Text returns the literal text: the digits of a number, the content of a
// string, T or F for logicals.
func (v Value) Text() string {
	return v.text
}

// AsBool returns a logical value.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindLogical {
		return false, v.mismatch(KindLogical)
	}
	return v.text == "T", nil
}

// AsInt returns an integer value. Floats are not truncated.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInteger {
		return 0, v.mismatch(KindInteger)
	}
	i, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer %s: %w", v.text, err)
	}
	return i, nil
}

// AsFloat returns an integer or float value as float64.
func (v Value) AsFloat() (float64, error) {
	if v.kind != KindInteger && v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}
	f, err := strconv.ParseFloat(normalizeExponent(v.text), 64)
	if err != nil {
		return 0, fmt.Errorf("float %s: %w", v.text, err)
	}
	return f, nil
}

// AsDecimal returns an integer or float value without rounding.
func (v Value) AsDecimal() (decimal.Decimal, error) {
	if v.kind != KindInteger && v.kind != KindFloat {
		return decimal.Decimal{}, v.mismatch(KindFloat)
	}
	d, err := decimal.NewFromString(normalizeExponent(v.text))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal %s: %w", v.text, err)
	}
	return d, nil
}

// AsString returns the content of a string or continuation value.
func (v Value) AsString() (string, error) {
	if v.kind != KindString && v.kind != KindContinue {
		return "", v.mismatch(KindString)
	}
	return v.text, nil
}

// Equal reports whether two values have the same kind and literal.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.text == o.text
}

// String returns the value as it appears in a card value field.
func (v Value) String() string {
	switch v.kind {
	case KindString, KindContinue:
		return quote(v.text)
	default:
		return v.text
	}
}

func (v Value) mismatch(want Kind) error {
	return fmt.Errorf("value %q is %s, not %s", v.text, v.kind, want)
}

// normalizeExponent rewrites a Fortran D exponent as E.
func normalizeExponent(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
}
