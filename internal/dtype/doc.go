// Package dtype decodes FITS data elements and table cells.
//
// FITS stores every binary value big-endian. The element type of an image
// is fixed by BITPIX:
//
//	BITPIX | Element       | Go type
//	-------|---------------|---------
//	8      | unsigned byte | uint8
//	16     | integer       | int16
//	32     | integer       | int32
//	64     | integer       | int64
//	-32    | IEEE float    | float32
//	-64    | IEEE double   | float64
//
// # Scaling
//
// Stored values map to physical values through BZERO and BSCALE:
//
//	physical = BZERO + BSCALE * raw
//
// [Scaling] carries these factors together with the optional BLANK sentinel.
// An integer element equal to BLANK decodes as undefined. For floating point
// data, NaN plays the same role. When BSCALE is 1 and BZERO is 0 the
// multiply-add is skipped.
//
// # Tables
//
// Binary table columns are described by TFORMn values of the form rT, a
// repeat count followed by a type code:
//
//	L logical   X bit       B byte      I int16     J int32     K int64
//	A character E float32   D float64   C complex64 M complex128
//	P 32-bit array descriptor           Q 64-bit array descriptor
//
// ASCII table columns use Aw, Iw, Fw.d, Ew.d and Dw.d. [ParseBinaryFormat]
// and [ParseASCIIFormat] parse these; unknown codes yield a [DecodeError].
//
// # Key Functions
//
//   - [Decode]: decodes one image element with scaling applied
//   - [DecodeFloat64]: decodes many elements to physical float64 values
//   - [Convert]: converts raw bytes into a typed Go slice without scaling
//   - [Encode]: converts a Go slice into big-endian FITS bytes
//   - [BinaryFormat.Decode], [ASCIIFormat.Decode]: decode one table cell
package dtype
