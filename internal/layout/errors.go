package layout

import "fmt"

// BoundsError reports an index outside the declared dimensions.
type BoundsError struct {
	Index []int64
	Shape []int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %v out of bounds for shape %v", e.Index, e.Shape)
}
