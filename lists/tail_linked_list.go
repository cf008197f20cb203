package lists

import (
	"iter"

	"github.com/cockroachdb/redact"
)

// TailLinkedList is a forward chain that also remembers its last node. Each
// node carries a back-reference to its predecessor, which is what lets Pop
// detach the tail without walking the chain. Both Push and Pop work at the
// tail, so the list behaves as a stack. The zero value is an empty list.
type TailLinkedList[T any] struct {
	head *node[T]
	tail *node[T]
	len  int
}

// NewTailLinkedList returns an empty list.
func NewTailLinkedList[T any]() *TailLinkedList[T] {
	return &TailLinkedList[T]{}
}

// Len returns the number of values in the list.
func (l *TailLinkedList[T]) Len() int {
	return l.len
}

// IsEmpty reports whether the list has no values.
func (l *TailLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

// Front returns the head value without removing it.
func (l *TailLinkedList[T]) Front() (value T, ok bool) {
	if l.head == nil {
		return value, false
	}
	return l.head.value, true
}

// Back returns the tail value without removing it.
func (l *TailLinkedList[T]) Back() (value T, ok bool) {
	if l.tail == nil {
		return value, false
	}
	return l.tail.value, true
}

// Push appends value at the tail.
func (l *TailLinkedList[T]) Push(value T) {
	n := newNode(value)
	if l.tail == nil {
		l.head = n
	} else {
		n.prev = l.tail
		l.tail.next = n
	}
	l.tail = n
	l.len++
}

// Pop removes and returns the value at the tail.
func (l *TailLinkedList[T]) Pop() (value T, ok bool) {
	n := l.tail
	if n == nil {
		return value, false
	}
	l.tail = n.prev
	if l.tail == nil {
		l.head = nil
	} else {
		l.tail.next = nil
	}
	l.len--
	return freeNode(n), true
}

// Iter returns a cursor over the values, head to tail.
func (l *TailLinkedList[T]) Iter() *Iter[T] {
	return chainIter(l.head, (*node[T]).step)
}

// Values yields the values head to tail.
func (l *TailLinkedList[T]) Values() iter.Seq[T] {
	return valuesOf(l.Iter)
}

// Free pops every node from the tail.
func (l *TailLinkedList[T]) Free() {
	for {
		if _, ok := l.Pop(); !ok {
			return
		}
	}
}

// String formats the values like a slice.
func (l *TailLinkedList[T]) String() string {
	return redact.StringWithoutMarkers(l)
}

// SafeFormat implements redact.SafeFormatter.
func (l *TailLinkedList[T]) SafeFormat(w redact.SafePrinter, _ rune) {
	formatValues(w, l.Values())
}
