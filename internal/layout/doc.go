// Package layout locates FITS data units and reads regions of them.
//
// Every HDU is a header followed by a data unit. The data unit starts at
// the first block boundary after END and its length follows from the
// mandatory keywords alone:
//
//	length = |BITPIX|/8 * GCOUNT * (PCOUNT + NAXIS1 * ... * NAXISn)
//
// For random-groups primaries NAXIS1 is 0 and is left out of the product.
// The data unit is padded to a multiple of 2880 bytes, so the next header
// starts at
//
//	next = header offset + header blocks*2880 + ceil(length/2880)*2880
//
// [Compute] derives this [Geometry] without touching the data, which is
// what lets HDUs be walked without decoding any payload.
//
// # Reading Data
//
// [Contiguous] reads byte ranges of one data unit through positioned reads
// on the shared source. [Contiguous.ReadSlice] reads a rectangular
// sub-array, issuing one read per run along NAXIS1 instead of loading the
// whole array.
//
// # Axis Order
//
// FITS arrays vary fastest along NAXIS1. Index tuples in this package are
// given in the same order as the axes: idx[0] selects along NAXIS1.
package layout
