package fits

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/layout"
)

// Image is a lazy view of an image data unit. Elements are read from the
// source on each request.
type Image struct {
	hdu     *HDU
	bitpix  dtype.Bitpix
	shape   []int64
	scaling dtype.Scaling
}

// Image returns the image view of a primary or IMAGE extension HDU.
func (h *HDU) Image() (*Image, error) {
	if h.file.src.Closed() {
		return nil, ErrClosed
	}
	if h.kind != KindPrimary && h.kind != KindImage {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, h)
	}
	if h.st.Groups {
		return nil, fmt.Errorf("%w: %s holds random groups", ErrNotImage, h)
	}

	b, err := dtype.ParseBitpix(h.st.Bitpix)
	if err != nil {
		return nil, err
	}
	s, err := scalingOf(h.header, "BZERO", "BSCALE", "BLANK", b.IsFloat())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	if b.IsFloat() && h.header.Has("BLANK") {
		h.file.log.Debug("ignoring BLANK on floating point image", "index", h.index)
	}

	return &Image{
		hdu:     h,
		bitpix:  b,
		shape:   h.Axes(),
		scaling: s,
	}, nil
}

// scalingOf reads linear scaling keywords. Absent keywords take their
// identity defaults; present but non-numeric ones are an error.
func scalingOf(h *header.Header, zeroKey, scaleKey, blankKey string, floating bool) (dtype.Scaling, error) {
	s := dtype.Identity()
	var err error
	if h.Has(zeroKey) {
		if s.Zero, err = h.Float(zeroKey); err != nil {
			return s, err
		}
	}
	if h.Has(scaleKey) {
		if s.Scale, err = h.Float(scaleKey); err != nil {
			return s, err
		}
	}
	if !floating && blankKey != "" && h.Has(blankKey) {
		if s.Blank, err = h.Int(blankKey); err != nil {
			return s, err
		}
		s.HasBlank = true
	}
	return s, nil
}

// Bitpix returns the stored element type.
func (im *Image) Bitpix() Bitpix {
	return im.bitpix
}

// Shape returns the axis lengths, NAXIS1 first.
func (im *Image) Shape() []int64 {
	return append([]int64(nil), im.shape...)
}

// Len returns the number of elements, 0 when NAXIS is 0.
func (im *Image) Len() int64 {
	return layout.Count(im.shape)
}

// Scaling returns BZERO, BSCALE and BLANK as applied to elements.
func (im *Image) Scaling() (zero, scale float64, blank int64, hasBlank bool) {
	return im.scaling.Zero, im.scaling.Scale, im.scaling.Blank, im.scaling.HasBlank
}

// At returns the element at idx, given in axis order with idx[0] along
// NAXIS1.
func (im *Image) At(idx ...int64) (Element, error) {
	n, err := layout.Linear(im.shape, idx)
	if err != nil {
		return Element{}, err
	}
	return im.element(n)
}

// AtLinear returns element number i in storage order.
func (im *Image) AtLinear(i int64) (Element, error) {
	if i < 0 || i >= im.Len() {
		return Element{}, &BoundsError{Index: []int64{i}, Shape: []int64{im.Len()}}
	}
	return im.element(i)
}

func (im *Image) element(i int64) (Element, error) {
	if im.hdu.file.src.Closed() {
		return Element{}, ErrClosed
	}
	size := im.bitpix.Size()
	buf := make([]byte, size)
	if err := im.hdu.data.ReadInto(buf, i*int64(size)); err != nil {
		return Element{}, fmt.Errorf("%s element %d: %w", im.hdu, i, err)
	}
	return dtype.Decode(im.bitpix, im.scaling, buf), nil
}

// ReadFloat64 reads every element as a physical value. Undefined elements
// are NaN.
func (im *Image) ReadFloat64() ([]float64, error) {
	raw, err := im.readAll()
	if err != nil {
		return nil, err
	}
	out := make([]float64, im.Len())
	if err := dtype.DecodeFloat64(im.bitpix, im.scaling, raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Read reads every element into dest without scaling. dest must be a
// pointer to a slice of a numeric type.
func (im *Image) Read(dest any) error {
	raw, err := im.readAll()
	if err != nil {
		return err
	}
	return dtype.Convert(im.bitpix, raw, int(im.Len()), dest)
}

func (im *Image) readAll() ([]byte, error) {
	if im.hdu.file.src.Closed() {
		return nil, ErrClosed
	}
	n := im.Len() * int64(im.bitpix.Size())
	if n == 0 {
		return []byte{}, nil
	}
	raw, err := im.hdu.data.ReadAt(0, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", im.hdu, err)
	}
	return raw, nil
}

// ReadSlice reads the physical values of a sub-array. start and count are
// given in axis order; the result keeps NAXIS1 fastest.
func (im *Image) ReadSlice(start, count []int64) ([]float64, error) {
	if im.hdu.file.src.Closed() {
		return nil, ErrClosed
	}
	raw, err := im.hdu.data.ReadSlice(im.shape, start, count, im.bitpix.Size())
	if err != nil {
		var be *BoundsError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", im.hdu, err)
	}
	out := make([]float64, layout.Count(count))
	if err := dtype.DecodeFloat64(im.bitpix, im.scaling, raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
