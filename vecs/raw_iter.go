package vecs

import "unsafe"

// rawValIter moves values out of a contiguous run of slots, one slot at a
// time, from either end. It does not own the memory it reads; whoever
// created it must keep the allocation alive until it is exhausted.
//
// start and end are byte offsets from base. Zero-sized values have no
// meaningful address distance, so for them the offsets count elements.
type rawValIter[T any] struct {
	base   unsafe.Pointer
	start  uintptr
	end    uintptr
	stride uintptr
}

func newRawValIter[T any](base unsafe.Pointer, n int) rawValIter[T] {
	var zero T
	stride := unsafe.Sizeof(zero)
	if stride == 0 {
		stride = 1
	}
	return rawValIter[T]{
		base:   base,
		end:    uintptr(n) * stride,
		stride: stride,
	}
}

func (it *rawValIter[T]) next() (v T, ok bool) {
	if it.start == it.end {
		return v, false
	}
	v = it.read(it.start)
	it.start += it.stride
	return v, true
}

func (it *rawValIter[T]) nextBack() (v T, ok bool) {
	if it.start == it.end {
		return v, false
	}
	it.end -= it.stride
	return it.read(it.end), true
}

func (it *rawValIter[T]) len() int {
	return int((it.end - it.start) / it.stride)
}

// drain moves out every remaining value and hands it to drop.
func (it *rawValIter[T]) drain(drop func(T)) {
	for {
		v, ok := it.next()
		if !ok {
			return
		}
		if drop != nil {
			drop(v)
		}
	}
}

// read moves the value at off out of its slot.
func (it *rawValIter[T]) read(off uintptr) T {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return zero
	}
	p := (*T)(unsafe.Add(it.base, off))
	v := *p
	*p = zero
	return v
}
