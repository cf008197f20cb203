package lists

import (
	"iter"

	"rawcoll/alloc"

	"github.com/cockroachdb/redact"
)

// node is shared by the lists that keep back-references.
type node[T any] struct {
	next  *node[T]
	prev  *node[T] // back-reference, never owning
	value T
}

func newNode[T any](value T) *node[T] {
	n := alloc.New[node[T]]()
	n.value = value
	return n
}

// freeNode releases n and returns the value it held.
func freeNode[T any](n *node[T]) T {
	v := n.value
	alloc.Free(n)
	return v
}

func (n *node[T]) step() (*T, *node[T]) {
	return &n.value, n.next
}

// DoublyLinkedList is a deque over individually allocated nodes. The zero
// value is an empty list.
type DoublyLinkedList[T any] struct {
	head *node[T]
	tail *node[T]
	len  int
}

// NewDoublyLinkedList returns an empty list.
func NewDoublyLinkedList[T any]() *DoublyLinkedList[T] {
	return &DoublyLinkedList[T]{}
}

// Len returns the number of values in the list.
func (l *DoublyLinkedList[T]) Len() int {
	return l.len
}

// IsEmpty reports whether the list has no values.
func (l *DoublyLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

// Front returns the first value without removing it.
func (l *DoublyLinkedList[T]) Front() (value T, ok bool) {
	if l.head == nil {
		return value, false
	}
	return l.head.value, true
}

// Back returns the last value without removing it.
func (l *DoublyLinkedList[T]) Back() (value T, ok bool) {
	if l.tail == nil {
		return value, false
	}
	return l.tail.value, true
}

// PushFront inserts value before the head.
func (l *DoublyLinkedList[T]) PushFront(value T) {
	n := newNode(value)
	if l.head == nil {
		l.head, l.tail = n, n
	} else {
		n.next = l.head
		l.head.prev = n
		l.head = n
	}
	l.len++
}

// PushBack appends value after the tail.
func (l *DoublyLinkedList[T]) PushBack(value T) {
	n := newNode(value)
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.len++
}

// PopFront removes and returns the first value.
func (l *DoublyLinkedList[T]) PopFront() (value T, ok bool) {
	n := l.head
	if n == nil {
		return value, false
	}
	l.head = n.next
	if l.head == nil {
		l.tail = nil
	} else {
		l.head.prev = nil
	}
	l.len--
	return freeNode(n), true
}

// PopBack removes and returns the last value.
func (l *DoublyLinkedList[T]) PopBack() (value T, ok bool) {
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

// RemoveIf removes every value satisfying predicate and returns how many
// were removed.
func (l *DoublyLinkedList[T]) RemoveIf(predicate func(T) bool) int {
	removed := 0
	for cur := l.head; cur != nil; {
		next := cur.next
		if predicate(cur.value) {
			l.unlink(cur)
			freeNode(cur)
			removed++
		}
		cur = next
	}
	return removed
}

// unlink detaches n from its neighbours and the list ends.
func (l *DoublyLinkedList[T]) unlink(n *node[T]) {
	if n.prev == nil {
		l.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		l.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	l.len--
}

// Sort sorts the list in place with a stable merge sort. Nodes are relinked,
// never reallocated.
func (l *DoublyLinkedList[T]) Sort(compare func(a, b T) int) {
	if l.len < 2 {
		return
	}
	l.head = mergeSort(l.head, compare)

	// Only next links are maintained while sorting.
	var prev *node[T]
	for cur := l.head; cur != nil; cur = cur.next {
		cur.prev = prev
		prev = cur
	}
	l.tail = prev
}

func mergeSort[T any](head *node[T], compare func(a, b T) int) *node[T] {
	if head == nil || head.next == nil {
		return head
	}

	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}
	mid := slow.next
	slow.next = nil

	return merge(mergeSort(head, compare), mergeSort(mid, compare), compare)
}

func merge[T any](a, b *node[T], compare func(a, b T) int) *node[T] {
	var dummy node[T]
	tail := &dummy
	for a != nil && b != nil {
		if compare(a.value, b.value) <= 0 {
			tail.next = a
			a = a.next
		} else {
			tail.next = b
			b = b.next
		}
		tail = tail.next
	}
	if a != nil {
		tail.next = a
	} else {
		tail.next = b
	}
	return dummy.next
}

// Iter returns a cursor over the values, head to tail.
func (l *DoublyLinkedList[T]) Iter() *Iter[T] {
	return chainIter(l.head, (*node[T]).step)
}

// Values yields the values head to tail.
func (l *DoublyLinkedList[T]) Values() iter.Seq[T] {
	return valuesOf(l.Iter)
}

// All yields each position and value, head to tail.
func (l *DoublyLinkedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		index := 0
		for cur := l.head; cur != nil; cur = cur.next {
			if !yield(index, cur.value) {
				return
			}
			index++
		}
	}
}

// Backward walks the back-references from the tail.
func (l *DoublyLinkedList[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		index := l.len - 1
		for cur := l.tail; cur != nil; cur = cur.prev {
			if !yield(index, cur.value) {
				return
			}
			index--
		}
	}
}

// Free pops every node from the back.
func (l *DoublyLinkedList[T]) Free() {
	for {
		if _, ok := l.PopBack(); !ok {
			return
		}
	}
}

// String formats the values like a slice.
func (l *DoublyLinkedList[T]) String() string {
	return redact.StringWithoutMarkers(l)
}

// SafeFormat implements redact.SafeFormatter.
func (l *DoublyLinkedList[T]) SafeFormat(w redact.SafePrinter, _ rune) {
	formatValues(w, l.Values())
}
