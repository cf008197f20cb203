// Package lists provides three linked lists whose nodes are allocated and
// released one at a time through the alloc package.
//
// Each list models a different ownership shape:
//
//   - DoublyLinkedList links both ways and works at both ends in O(1).
//   - SinglyLinkedList keeps only a head, so Push walks the whole chain.
//   - TailLinkedList keeps a head and a tail, and every node carries a
//     back-reference to its predecessor, so it pushes and pops at the tail
//     in O(1).
//
// In every list the next link owns the node it points to. A prev link is a
// back-reference used for traversal and fix-up only. Free pops every node
// individually, so each node's allocation is returned exactly once.
package lists

import (
	"fmt"
	"iter"
)

// Sequence is the surface shared by every list.
type Sequence[T any] interface {
	Len() int
	IsEmpty() bool

	// Front returns the first value, or false if the list is empty.
	Front() (T, bool)

	// Iter returns a fresh forward iterator over the values in place.
	Iter() *Iter[T]

	Values() iter.Seq[T]

	// Free releases every node. The list is empty and usable afterwards.
	Free()

	fmt.Stringer
}

// Deque is a Sequence that grows and shrinks at both ends.
type Deque[T any] interface {
	Sequence[T]
	Back() (T, bool)
	PushFront(value T)
	PushBack(value T)
	PopFront() (T, bool)
	PopBack() (T, bool)
}

// Queue appends at one end and removes from the other.
type Queue[T any] interface {
	Sequence[T]
	Push(value T)
	PopFront() (T, bool)
}

// Stack appends and removes at the same end.
type Stack[T any] interface {
	Sequence[T]
	Back() (T, bool)
	Push(value T)
	Pop() (T, bool)
}

var (
	_ Deque[int] = (*DoublyLinkedList[int])(nil)
	_ Queue[int] = (*SinglyLinkedList[int])(nil)
	_ Stack[int] = (*TailLinkedList[int])(nil)
)

// IndexFunc returns the position of the first value satisfying predicate, or
// -1 if there is none.
func IndexFunc[T any](s Sequence[T], predicate func(T) bool) int {
	index := 0
	for v := range s.Values() {
		if predicate(v) {
			return index
		}
		index++
	}
	return -1
}

// Index is IndexFunc for comparable values. It is a standalone function
// because Sequence places no constraint on T.
func Index[T comparable](s Sequence[T], value T) int {
	return IndexFunc(s, func(v T) bool {
		return v == value
	})
}

// Contains reports whether value is in s.
func Contains[T comparable](s Sequence[T], value T) bool {
	return Index(s, value) >= 0
}
