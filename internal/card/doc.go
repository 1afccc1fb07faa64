// Package card lexes and formats FITS header cards.
//
// A FITS header is a sequence of 80-byte ASCII records ("cards"). Each card
// carries a keyword in bytes 1-8, an optional value indicator "= " in bytes
// 9-10, and a value field with an optional comment introduced by "/".
//
// # Value Model
//
// [Value] is a closed tagged variant. Its [Kind] is one of:
//
//	Kind          | Literal form
//	--------------|------------------------------------------
//	KindUndefined | empty value field
//	KindLogical   | T or F
//	KindInteger   | [+-]digits
//	KindFloat     | decimal with '.' and/or E/D exponent
//	KindString    | 'quoted, with '' for an embedded quote'
//	KindContinue  | string fragment carried by a CONTINUE card
//	KindOpaque    | anything else, retained verbatim
//
// Numeric literals are kept as text. They are converted only when a caller
// asks for a machine type ([Value.AsInt], [Value.AsFloat]) or for an exact
// decimal ([Value.AsDecimal]), so no precision is lost by parsing alone.
//
// # Lexing
//
// [Parse] never reads more than one record. Malformed records produce a
// [LexError] naming the byte offset inside the record. Bytes outside the
// printable ASCII range inside strings and comments are decoded as
// ISO-8859-1 instead of failing the card.
//
// # Formatting
//
// Cards produced by [Parse] keep their original record, so [Card.Bytes]
// reproduces the input exactly. Cards built with [New] are formatted in
// fixed format: strings start in column 11, other values are right-justified
// to column 30. [LongString] splits strings that do not fit into one card
// across CONTINUE cards.
package card
