// Package vecs provides Vector, a growable contiguous array that manages its
// own storage through the alloc package instead of leaning on append.
//
// A Vector owns the elements in [0, Len()). Everything past that, up to
// Cap(), is allocated but uninitialized and is never read or dropped.
// Storage grows by doubling (0, 1, 2, 4, ...) and never shrinks until the
// vector is freed.
//
// Elements leave a vector in one of three ways: they are returned to the
// caller (Pop, Remove, the iterators), they are dropped (Clear, Free, or
// closing an iterator early), or ownership of the whole buffer moves to an
// IntoIter. Each element takes exactly one of these exits.
//
// Go has no destructors, so Free must be called to return the storage. A
// drop hook set with WithDropFunc observes every element destroyed on the
// vector's behalf.
package vecs

import (
	"iter"
	"slices"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ErrIndexOutOfBounds is wrapped by the panic value of every out-of-range
// access.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

type state uint8

const (
	stateLive state = iota
	stateDraining
	stateMoved
)

// Vector is a growable array over a manually managed buffer.
//
// The zero value is an empty vector without a drop hook. A Vector is not
// safe for concurrent use.
type Vector[T any] struct {
	buf   rawBuffer[T]
	len   int
	drop  func(T)
	state state
	drain *Drain[T]
}

// New creates an empty vector. It does not allocate.
func New[T any](opts ...Option[T]) *Vector[T] {
	var cfg config[T]
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Vector[T]{
		buf:  newRawBuffer[T](),
		drop: cfg.drop,
	}
}

// Of creates a vector holding values, in order.
func Of[T any](values ...T) *Vector[T] {
	v := New[T]()
	v.Extend(values...)
	return v
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.len
}

// Cap returns the number of slots allocated.
func (v *Vector[T]) Cap() int {
	return v.buf.capacity()
}

// IsEmpty reports whether the vector has no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.len == 0
}

// Ptr returns the address of the first slot. It is nil before the first
// allocation and changes whenever the vector grows.
func (v *Vector[T]) Ptr() unsafe.Pointer {
	return v.buf.ptr()
}

// Push appends value, growing the buffer first if it is full. A Drain that
// is still open is forgotten: the elements it has not yielded are leaked,
// never dropped.
func (v *Vector[T]) Push(value T) {
	v.forgetDrain()
	v.mustBeLive("Push")
	if v.len == v.buf.capacity() {
		v.buf.grow()
	}
	*v.buf.slot(v.len) = value
	v.len++
}

// Extend pushes values in order.
func (v *Vector[T]) Extend(values ...T) {
	for _, value := range values {
		v.Push(value)
	}
}

// Pop removes and returns the last element.
func (v *Vector[T]) Pop() (value T, ok bool) {
	v.mustBeLive("Pop")
	if v.len == 0 {
		return value, false
	}
	v.len--
	return v.buf.take(v.len), true
}

// Insert places value at index, shifting the elements after it one slot to
// the right. It panics unless 0 <= index <= Len().
func (v *Vector[T]) Insert(index int, value T) {
	v.mustBeLive("Insert")
	if index < 0 || index > v.len {
		panic(indexOutOfBounds("Insert", index, v.len))
	}
	if v.len == v.buf.capacity() {
		v.buf.grow()
	}
	s := v.buf.view(v.len + 1)
	// copy handles the overlap
	copy(s[index+1:], s[index:v.len])
	s[index] = value
	v.len++
}

// Remove removes and returns the element at index, shifting the elements
// after it one slot to the left. It panics unless 0 <= index < Len().
func (v *Vector[T]) Remove(index int) T {
	v.mustBeLive("Remove")
	if index < 0 || index >= v.len {
		panic(indexOutOfBounds("Remove", index, v.len))
	}
	s := v.buf.view(v.len)
	v.len--
	value := s[index]
	copy(s[index:], s[index+1:])
	clear(s[v.len:])
	return value
}

// Get returns the element at index. It panics unless 0 <= index < Len().
func (v *Vector[T]) Get(index int) T {
	if index < 0 || index >= v.len {
		panic(indexOutOfBounds("Get", index, v.len))
	}
	return v.buf.view(v.len)[index]
}

// Set replaces the element at index, dropping the previous value. It panics
// unless 0 <= index < Len().
func (v *Vector[T]) Set(index int, value T) {
	v.mustBeLive("Set")
	if index < 0 || index >= v.len {
		panic(indexOutOfBounds("Set", index, v.len))
	}
	p := v.buf.slot(index)
	old := *p
	*p = value
	v.dropValue(old)
}

// AsSlice returns the live elements as a slice sharing the vector's
// storage. The slice is invalidated by any call that changes the vector.
func (v *Vector[T]) AsSlice() []T {
	return v.buf.view(v.len)
}

// Slice returns elements [lo, hi) as a slice sharing the vector's storage.
// It panics unless 0 <= lo <= hi <= Len().
func (v *Vector[T]) Slice(lo, hi int) []T {
	if lo < 0 || hi > v.len || lo > hi {
		panic(errors.WithAssertionFailure(errors.Wrapf(ErrIndexOutOfBounds,
			"Slice: range [%d:%d], len %d", lo, hi, v.len)))
	}
	return v.buf.view(v.len)[lo:hi]
}

// All yields each index and element, front to back.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return slices.All(v.AsSlice())
}

// Values yields the elements front to back.
func (v *Vector[T]) Values() iter.Seq[T] {
	return slices.Values(v.AsSlice())
}

// Backward yields each index and element, back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(v.AsSlice())
}

// Clear drops every element, last to first, and keeps the capacity.
func (v *Vector[T]) Clear() {
	v.mustBeLive("Clear")
	v.dropAll()
}

// Free drops every element and releases the buffer. The vector is empty and
// usable afterwards. Freeing a vector consumed by IntoIter does nothing: the
// iterator owns the buffer. A Drain that is still open is forgotten first,
// so it can never read the released slots.
func (v *Vector[T]) Free() {
	if v.state == stateMoved {
		return
	}
	v.forgetDrain()
	v.dropAll()
	v.buf.release()
}

// IntoIter moves the buffer and every element into a consuming iterator.
// The vector must not be used afterwards except for Free, which is a no-op.
func (v *Vector[T]) IntoIter() *IntoIter[T] {
	v.mustBeLive("IntoIter")
	it := &IntoIter[T]{
		buf:    v.buf,
		cursor: newRawValIter[T](v.buf.ptr(), v.len),
		drop:   v.drop,
	}
	v.buf = rawBuffer[T]{}
	v.len = 0
	v.state = stateMoved
	it.releaseIfDone()
	return it
}

// Drain returns an iterator that moves every element out of the vector.
// The vector's length is zero from the moment Drain returns, whether or not
// the drain is consumed. Until the drain is exhausted or closed the vector
// accepts only Push, Extend and Free, each of which forgets the drain.
func (v *Vector[T]) Drain() *Drain[T] {
	v.mustBeLive("Drain")
	d := &Drain[T]{
		vec:    v,
		cursor: newRawValIter[T](v.buf.ptr(), v.len),
		drop:   v.drop,
	}
	v.len = 0
	v.state = stateDraining
	v.drain = d
	d.finishIfDone()
	return d
}

// String formats the elements like a slice.
func (v *Vector[T]) String() string {
	return redact.StringWithoutMarkers(v)
}

// SafeFormat implements redact.SafeFormatter. Element values are unsafe.
func (v *Vector[T]) SafeFormat(w redact.SafePrinter, _ rune) {
	if v.state == stateMoved {
		w.SafeString("<moved>")
		return
	}
	w.Printf("%v", v.AsSlice())
}

func (v *Vector[T]) dropValue(value T) {
	if v.drop != nil {
		v.drop(value)
	}
}

// dropAll drops every element, last to first.
func (v *Vector[T]) dropAll() {
	for v.len > 0 {
		v.len--
		v.dropValue(v.buf.take(v.len))
	}
}

// forgetDrain detaches an open Drain and hands the vector back. The drain
// reads as exhausted from then on; its unread elements are leaked.
func (v *Vector[T]) forgetDrain() {
	d := v.drain
	if d == nil {
		return
	}
	d.cursor.start = d.cursor.end
	d.finishIfDone()
}

func (v *Vector[T]) mustBeLive(op string) {
	switch v.state {
	case stateDraining:
		panic(errors.AssertionFailedf("%s on a vector with an open Drain", redact.Safe(op)))
	case stateMoved:
		panic(errors.AssertionFailedf("%s on a vector consumed by IntoIter", redact.Safe(op)))
	}
}

func indexOutOfBounds(op string, index, length int) error {
	return errors.WithAssertionFailure(errors.Wrapf(ErrIndexOutOfBounds,
		"%s: index %d, len %d", redact.Safe(op), index, length))
}
