package vecs

import "iter"

// IntoIter yields the elements of a vector it has taken ownership of, from
// either end. It owns the vector's buffer and releases it once every element
// has been yielded or dropped.
//
// An IntoIter that is abandoned early must be closed, or the remaining
// elements and the buffer are leaked.
type IntoIter[T any] struct {
	buf    rawBuffer[T]
	cursor rawValIter[T]
	drop   func(T)
}

// Next yields the first remaining element.
func (it *IntoIter[T]) Next() (T, bool) {
	v, ok := it.cursor.next()
	it.releaseIfDone()
	return v, ok
}

// NextBack yields the last remaining element.
func (it *IntoIter[T]) NextBack() (T, bool) {
	v, ok := it.cursor.nextBack()
	it.releaseIfDone()
	return v, ok
}

// Len returns the number of elements not yet yielded.
func (it *IntoIter[T]) Len() int {
	return it.cursor.len()
}

// Close drops the elements not yet yielded and releases the buffer. It is
// safe to call more than once.
func (it *IntoIter[T]) Close() {
	it.cursor.drain(it.drop)
	it.buf.release()
}

// Seq yields the remaining elements front to back and closes the iterator
// when the loop ends, including on break.
func (it *IntoIter[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Backward is Seq from the back.
func (it *IntoIter[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			v, ok := it.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

func (it *IntoIter[T]) releaseIfDone() {
	if it.cursor.len() == 0 {
		it.buf.release()
	}
}

// Drain yields the elements of a vector that keeps its buffer. The vector
// already reads as empty; it becomes usable again once the drain is
// exhausted or closed, or once Push, Extend or Free forgets the drain.
type Drain[T any] struct {
	vec    *Vector[T]
	cursor rawValIter[T]
	drop   func(T)
	done   bool
}

// Next yields the first remaining element.
func (d *Drain[T]) Next() (T, bool) {
	v, ok := d.cursor.next()
	d.finishIfDone()
	return v, ok
}

// NextBack yields the last remaining element.
func (d *Drain[T]) NextBack() (T, bool) {
	v, ok := d.cursor.nextBack()
	d.finishIfDone()
	return v, ok
}

// Len returns the number of elements not yet yielded.
func (d *Drain[T]) Len() int {
	return d.cursor.len()
}

// Close drops the elements not yet yielded and hands the vector back. It is
// safe to call more than once.
func (d *Drain[T]) Close() {
	d.cursor.drain(d.drop)
	d.finishIfDone()
}

// Seq yields the remaining elements front to back and closes the drain when
// the loop ends, including on break.
func (d *Drain[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			v, ok := d.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Backward is Seq from the back.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			v, ok := d.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

func (d *Drain[T]) finishIfDone() {
	if d.done || d.cursor.len() > 0 {
		return
	}
	d.done = true
	d.vec.state = stateLive
	d.vec.drain = nil
}
