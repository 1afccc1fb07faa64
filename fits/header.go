package fits

import (
	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
)

type (
	// Header is an ordered sequence of cards ending with END.
	Header = header.Header
	// Card is one 80-byte header record.
	Card = card.Card
	// Value is the typed value of a card.
	Value = card.Value
	// ValueKind tags the variant held by a Value.
	ValueKind = card.Kind
	// HeaderBuilder constructs headers programmatically.
	HeaderBuilder = header.Builder
	// Element is one decoded image value.
	Element = dtype.Element
	// Bitpix is the element type declared by BITPIX.
	Bitpix = dtype.Bitpix
)

// Value kinds.
const (
	ValueUndefined = card.KindUndefined
	ValueLogical   = card.KindLogical
	ValueInteger   = card.KindInteger
	ValueFloat     = card.KindFloat
	ValueString    = card.KindString
	ValueContinue  = card.KindContinue
	ValueOpaque    = card.KindOpaque
)

// Element types.
const (
	Uint8   = dtype.Uint8
	Int16   = dtype.Int16
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
)

// LogicalValue returns a T or F value.
func LogicalValue(b bool) Value { return card.Logical(b) }

// IntegerValue returns an integer value.
func IntegerValue(i int64) Value { return card.Integer(i) }

// FloatValue returns a floating point value.
func FloatValue(f float64) Value { return card.Float(f) }

// StringValue returns a string value.
func StringValue(s string) Value { return card.String(s) }

// UndefinedValue returns an empty value.
func UndefinedValue() Value { return card.Undefined() }

// NewCard builds a valued card for programmatic headers.
func NewCard(keyword string, v Value, comment string) (Card, error) {
	return card.New(keyword, v, comment)
}

// NewPrimaryHeader starts a primary header with the given element type and
// axes, NAXIS1 first.
func NewPrimaryHeader(bitpix Bitpix, axes ...int64) *HeaderBuilder {
	return header.NewPrimary(int64(bitpix), axes...)
}

// NewImageHeader starts an IMAGE extension header.
func NewImageHeader(bitpix Bitpix, axes ...int64) *HeaderBuilder {
	return header.NewImage(int64(bitpix), axes...)
}

// NewExtensionHeader starts an extension header of an arbitrary type.
func NewExtensionHeader(xtension string, bitpix Bitpix, axes []int64, pcount, gcount int64) *HeaderBuilder {
	return header.NewExtension(xtension, int64(bitpix), axes, pcount, gcount)
}
