package vecs

import (
	"math"
	"unsafe"

	"rawcoll/alloc"

	"github.com/cockroachdb/errors"
)

// rawBuffer owns a block of slots, none of which it considers initialized.
// Tracking which slots hold live values is the owner's job.
//
// The zero value is an empty buffer. For zero-sized T nothing is ever
// allocated and the capacity is math.MaxInt.
type rawBuffer[T any] struct {
	block []T // nil without an allocation
}

func newRawBuffer[T any]() rawBuffer[T] {
	return rawBuffer[T]{}
}

func (b *rawBuffer[T]) zeroSized() bool {
	return alloc.IsZeroSized[T]()
}

func (b *rawBuffer[T]) capacity() int {
	if b.zeroSized() {
		return math.MaxInt
	}
	return len(b.block)
}

// grow doubles the capacity, going straight from 0 to 1.
func (b *rawBuffer[T]) grow() {
	if b.zeroSized() {
		// A zero-sized buffer is never full.
		panic(errors.AssertionFailedf("capacity overflow"))
	}
	n := len(b.block)
	if n == 0 {
		b.block = alloc.Allocate[T](1)
		return
	}
	if n > math.MaxInt/2 {
		alloc.HandleAllocError(errors.Wrapf(alloc.ErrCapacityOverflow, "doubling %d elements", n))
	}
	b.block = alloc.Grow(b.block, n*2)
}

// release returns the allocation, if any. The buffer is left empty, so a
// second call does nothing.
func (b *rawBuffer[T]) release() {
	if len(b.block) > 0 {
		alloc.Deallocate(b.block)
	}
	b.block = nil
}

// ptr returns the base of the allocation: nil when there is none, and a
// valid but dangling pointer for zero-sized T.
func (b *rawBuffer[T]) ptr() unsafe.Pointer {
	if b.zeroSized() {
		return unsafe.Pointer(new(T))
	}
	return unsafe.Pointer(unsafe.SliceData(b.block))
}

// view returns the first n slots as a slice whose capacity is also n, so
// appending to it can never reach the spare slots.
func (b *rawBuffer[T]) view(n int) []T {
	if b.zeroSized() {
		return unsafe.Slice(new(T), n)
	}
	return b.block[:n:n]
}

// slot returns a pointer to slot i.
func (b *rawBuffer[T]) slot(i int) *T {
	if b.zeroSized() {
		return new(T)
	}
	return &b.block[i]
}

// take moves the value out of slot i, leaving the zero value behind.
func (b *rawBuffer[T]) take(i int) T {
	p := b.slot(i)
	v := *p
	var zero T
	*p = zero
	return v
}
