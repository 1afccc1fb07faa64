package fits

import "errors"

// WalkFunc is called for each HDU in file order.
// hdu is nil and err non-nil when the HDU at index could not be
// constructed; no further HDUs follow it.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(index int, hdu *HDU, err error) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an
// error.
var ErrStopWalk = errors.New("walk stopped")

// Walk visits every HDU of f, scanning headers as it goes.
//
// Example:
//
//	fits.Walk(f, func(i int, hdu *fits.HDU, err error) error {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(i, hdu.Kind(), hdu.Axes())
//	    return nil
//	})
func Walk(f *File, fn WalkFunc) error {
	for i := 0; ; i++ {
		hdu, err := f.HDU(i)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			err = fn(i, nil, err)
		} else {
			err = fn(i, hdu, nil)
		}
		if errors.Is(err, ErrStopWalk) {
			return nil
		}
		if err != nil {
			return err
		}
		if hdu == nil {
			return nil
		}
	}
}
