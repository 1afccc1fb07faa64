// Package header assembles and validates FITS headers.
//
// A header occupies one or more 2880-byte blocks of 36 cards each and ends
// with the END card. [Read] scans blocks at a given source offset, lexing
// every card until END is found. The number of blocks scanned is bounded by
// [Options.MaxBlocks], so a truncated or corrupt source fails with a
// [StructuralError] instead of reading without limit.
//
// # Structure
//
// [Header.Structure] validates the mandatory keywords and extracts the
// values that determine the data geometry:
//
//	SIMPLE = T         (primary)   or   XTENSION = 'name'   (extension)
//	BITPIX             8, 16, 32, 64, -32 or -64
//	NAXIS              0..999
//	NAXIS1 .. NAXISn   non-negative, in order
//	PCOUNT, GCOUNT     optional, default 0 and 1
//
// These keywords must appear once each, in this order, before any other
// card. Commentary and user keywords may repeat freely.
//
// # Lookup
//
// [Header.Get] returns the first value for a keyword (case-insensitive) and
// joins long strings spread over CONTINUE cards. [Header.Values] returns
// every occurrence, which is how HISTORY and COMMENT are read.
//
// # Building
//
// [Builder] constructs headers programmatically, starting from the
// mandatory keywords of a primary or extension HDU.
package header
