package lists

import (
	"iter"

	"rawcoll/alloc"

	"github.com/cockroachdb/redact"
)

type singleNode[T any] struct {
	next  *singleNode[T]
	value T
}

func (n *singleNode[T]) step() (*T, *singleNode[T]) {
	return &n.value, n.next
}

// SinglyLinkedList keeps nothing but the head of a forward chain. Push has
// to find the last node by walking from the head, so appending costs O(n).
// The zero value is an empty list.
type SinglyLinkedList[T any] struct {
	head *singleNode[T]
	len  int
}

// NewSinglyLinkedList returns an empty list.
func NewSinglyLinkedList[T any]() *SinglyLinkedList[T] {
	return &SinglyLinkedList[T]{}
}

// Len returns the number of values in the list.
func (l *SinglyLinkedList[T]) Len() int {
	return l.len
}

// IsEmpty reports whether the list has no values.
func (l *SinglyLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

// Front returns the head value without removing it.
func (l *SinglyLinkedList[T]) Front() (value T, ok bool) {
	if l.head == nil {
		return value, false
	}
	return l.head.value, true
}

// Push appends value after the last node.
func (l *SinglyLinkedList[T]) Push(value T) {
	n := alloc.New[singleNode[T]]()
	n.value = value
	if l.head == nil {
		l.head = n
	} else {
		last := l.head
		for last.next != nil {
			last = last.next
		}
		last.next = n
	}
	l.len++
}

// PopFront removes and returns the head value.
func (l *SinglyLinkedList[T]) PopFront() (value T, ok bool) {
	n := l.head
	if n == nil {
		return value, false
	}
	l.head = n.next
	l.len--
	value = n.value
	alloc.Free(n)
	return value, true
}

// Iter returns a cursor over the values, head to last.
func (l *SinglyLinkedList[T]) Iter() *Iter[T] {
	return chainIter(l.head, (*singleNode[T]).step)
}

// Values yields the values head to last.
func (l *SinglyLinkedList[T]) Values() iter.Seq[T] {
	return valuesOf(l.Iter)
}

// Free pops every node from the front.
func (l *SinglyLinkedList[T]) Free() {
	for {
		if _, ok := l.PopFront(); !ok {
			return
		}
	}
}

// String formats the values like a slice.
func (l *SinglyLinkedList[T]) String() string {
	return redact.StringWithoutMarkers(l)
}

// SafeFormat implements redact.SafeFormatter.
func (l *SinglyLinkedList[T]) SafeFormat(w redact.SafePrinter, _ rune) {
	formatValues(w, l.Values())
}
