package alloc

import (
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/dustin/go-humanize"
)

// ErrCapacityOverflow is returned when the byte size of a requested array
// does not fit in an int.
var ErrCapacityOverflow = errors.New("capacity overflow")

// Layout describes the size and alignment of a memory block.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of a single T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// ArrayLayout returns the layout of n contiguous Ts.
func ArrayLayout[T any](n int) (Layout, error) {
	elem := LayoutOf[T]()
	if n < 0 {
		return Layout{}, errors.Wrapf(ErrCapacityOverflow, "negative element count %d", n)
	}
	if elem.Size != 0 && uintptr(n) > uintptr(math.MaxInt)/elem.Size {
		return Layout{}, errors.Wrapf(ErrCapacityOverflow, "%d elements of %d bytes", n, elem.Size)
	}
	return Layout{Size: elem.Size * uintptr(n), Align: elem.Align}, nil
}

// IsZeroSized reports whether values of T occupy no memory.
func IsZeroSized[T any]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 0
}

// String implements fmt.Stringer.
func (l Layout) String() string {
	return redact.StringWithoutMarkers(l)
}

// SafeFormat implements redact.SafeFormatter.
func (l Layout) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s (align %d)", redact.Safe(humanize.IBytes(uint64(l.Size))), redact.Safe(l.Align))
}
