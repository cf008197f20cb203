package lists

import (
	"iter"

	"github.com/cockroachdb/redact"
)

// Iter walks a list front to back, yielding a pointer to each value where it
// is stored. It never modifies the list. Once Next reports false the
// iterator stays exhausted; call the list's Iter method again to start over.
//
// Changing the list while an Iter is in use invalidates the iterator.
type Iter[T any] struct {
	advance func() (*T, bool)
}

// chainIter builds an Iter over the chain starting at first. step returns
// the value held by a node and the node after it.
func chainIter[N, T any](first *N, step func(*N) (*T, *N)) *Iter[T] {
	cur := first
	return &Iter[T]{
		advance: func() (*T, bool) {
			if cur == nil {
				return nil, false
			}
			var v *T
			v, cur = step(cur)
			return v, true
		},
	}
}

// Next returns a pointer to the next value.
func (it *Iter[T]) Next() (*T, bool) {
	if it.advance == nil {
		return nil, false
	}
	v, ok := it.advance()
	if !ok {
		it.advance = nil
	}
	return v, ok
}

// Seq adapts the remaining values to a range-over-func sequence.
func (it *Iter[T]) Seq() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// valuesOf yields copies of the values a fresh iterator walks over.
func valuesOf[T any](newIter func() *Iter[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range newIter().Seq() {
			if !yield(*v) {
				return
			}
		}
	}
}

// formatValues prints values the way fmt prints a slice. The values
// themselves are unsafe for redaction.
func formatValues[T any](w redact.SafePrinter, values iter.Seq[T]) {
	w.SafeRune('[')
	first := true
	for v := range values {
		if !first {
			w.SafeRune(' ')
		}
		first = false
		w.Print(v)
	}
	w.SafeRune(']')
}
