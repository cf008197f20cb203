package vecs_test

import (
	"slices"
	"testing"
	"unsafe"

	"rawcoll/alloc"
	"rawcoll/vecs"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkLeaks records the allocator's live count and returns a func that
// fails the test if anything allocated since is still live.
func checkLeaks(t *testing.T) func() {
	t.Helper()
	before := alloc.Snapshot()
	return func() {
		t.Helper()
		after := alloc.Snapshot()
		assert.Equal(t, before.LiveAllocations, after.LiveAllocations, "live allocations")
		assert.Equal(t, before.LiveBytes, after.LiveBytes, "live bytes")
	}
}

// dropLog records every value handed to a vector's drop hook.
type dropLog struct {
	values []int
}

func (l *dropLog) option() vecs.Option[int] {
	return vecs.WithDropFunc(func(v int) { l.values = append(l.values, v) })
}

func requireOutOfBounds(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected an error panic, got %v", r)
		require.True(t, errors.Is(err, vecs.ErrIndexOutOfBounds), "got %v", err)
		require.True(t, errors.HasAssertionFailure(err), "got %v", err)
	}()
	fn()
}

func requireMisuse(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected an error panic, got %v", r)
		require.True(t, errors.HasAssertionFailure(err), "got %v", err)
		require.False(t, errors.Is(err, vecs.ErrIndexOutOfBounds), "got %v", err)
	}()
	fn()
}

func TestNewDoesNotAllocate(t *testing.T) {
	before := alloc.Snapshot()
	v := vecs.New[int]()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.IsEmpty())
	assert.Nil(t, v.Ptr())
	assert.Equal(t, before.Allocations, alloc.Snapshot().Allocations)
	v.Free()
}

func TestZeroValueVector(t *testing.T) {
	defer checkLeaks(t)()

	var v vecs.Vector[string]
	v.Push("a")
	v.Push("b")
	assert.Equal(t, []string{"a", "b"}, v.AsSlice())
	v.Free()
	assert.Equal(t, 0, v.Cap())
}

func TestPushPop(t *testing.T) {
	defer checkLeaks(t)()

	v := vecs.New[int]()
	defer v.Free()

	for i := range 5 {
		v.Push(i)
		assert.Equal(t, i+1, v.Len())
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, v.AsSlice())

	for i := 4; i >= 0; i-- {
		got, ok := v.Pop()
		require.True(t, ok)
		assert.Equal(t, i, got)
	}
	got, ok := v.Pop()
	assert.False(t, ok)
	assert.Zero(t, got)
	assert.True(t, v.IsEmpty())
}

func TestCapacityDoubles(t *testing.T) {
	defer checkLeaks(t)()

	v := vecs.New[int64]()
	defer v.Free()

	var caps []int
	for i := range 9 {
		v.Push(int64(i))
		if c := v.Cap(); len(caps) == 0 || caps[len(caps)-1] != c {
			caps = append(caps, c)
		}
	}
	assert.Equal(t, []int{1, 2, 4, 8, 16}, caps)

	// Pop never shrinks.
	for !v.IsEmpty() {
		v.Pop()
	}
	assert.Equal(t, 16, v.Cap())
}

func TestPtrMovesOnGrowth(t *testing.T) {
	v := vecs.Of(1)
	defer v.Free()

	p := v.Ptr()
	require.NotNil(t, p)
	v.Push(2)
	assert.NotEqual(t, p, v.Ptr())

	p = v.Ptr()
	v.Pop()
	v.Push(3)
	assert.Equal(t, p, v.Ptr())
}

func TestInsert(t *testing.T) {
	defer checkLeaks(t)()

	testCases := []struct {
		name  string
		init  []int
		index int
		want  []int
	}{
		{name: "into empty", init: nil, index: 0, want: []int{9}},
		{name: "front", init: []int{1, 2, 3}, index: 0, want: []int{9, 1, 2, 3}},
		{name: "middle", init: []int{1, 2, 3}, index: 1, want: []int{1, 9, 2, 3}},
		{name: "end", init: []int{1, 2, 3}, index: 3, want: []int{1, 2, 3, 9}},
		{name: "end of full buffer", init: []int{1, 2, 3, 4}, index: 4, want: []int{1, 2, 3, 4, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := vecs.Of(tc.init...)
			defer v.Free()
			v.Insert(tc.index, 9)
			assert.Equal(t, tc.want, v.AsSlice())
		})
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	v := vecs.Of(1, 2, 3)
	defer v.Free()

	requireOutOfBounds(t, func() { v.Insert(4, 0) })
	requireOutOfBounds(t, func() { v.Insert(-1, 0) })
	assert.Equal(t, []int{1, 2, 3}, v.AsSlice())
}

func TestRemove(t *testing.T) {
	defer checkLeaks(t)()

	v := vecs.Of("a", "b", "c", "d")
	defer v.Free()

	assert.Equal(t, "b", v.Remove(1))
	assert.Equal(t, []string{"a", "c", "d"}, v.AsSlice())
	assert.Equal(t, "d", v.Remove(2))
	assert.Equal(t, "a", v.Remove(0))
	assert.Equal(t, []string{"c"}, v.AsSlice())

	// The vacated slots are cleared so they do not pin garbage.
	spare := unsafe.Slice((*string)(v.Ptr()), v.Cap())
	assert.Equal(t, []string{"c", "", "", ""}, spare)

	requireOutOfBounds(t, func() { v.Remove(1) })
	assert.Equal(t, "c", v.Remove(0))
	requireOutOfBounds(t, func() { v.Remove(0) })
}

func TestGetSet(t *testing.T) {
	var drops dropLog
	v := vecs.New(drops.option())
	defer v.Free()
	v.Extend(10, 20, 30)

	assert.Equal(t, 20, v.Get(1))
	v.Set(1, 21)
	assert.Equal(t, 21, v.Get(1))
	assert.Equal(t, []int{20}, drops.values)

	requireOutOfBounds(t, func() { v.Get(3) })
	requireOutOfBounds(t, func() { v.Get(-1) })
	requireOutOfBounds(t, func() { v.Set(3, 0) })
	assert.Equal(t, []int{20}, drops.values)
}

func TestSlice(t *testing.T) {
	v := vecs.Of(1, 2, 3, 4)
	defer v.Free()

	assert.Equal(t, []int{2, 3}, v.Slice(1, 3))
	assert.Empty(t, v.Slice(4, 4))

	s := v.Slice(0, 2)
	s[0] = 100
	assert.Equal(t, 100, v.Get(0))

	// Appending to a view must not write into the vector's spare slots.
	v.Pop()
	full := v.AsSlice()
	_ = append(full, 7)
	v.Push(8)
	assert.Equal(t, []int{100, 2, 3, 8}, v.AsSlice())

	requireOutOfBounds(t, func() { v.Slice(3, 2) })
	requireOutOfBounds(t, func() { v.Slice(0, 5) })
	requireOutOfBounds(t, func() { v.Slice(-1, 1) })
}

func TestIterators(t *testing.T) {
	v := vecs.Of("x", "y", "z")
	defer v.Free()

	var idx []int
	var vals []string
	for i, s := range v.All() {
		idx = append(idx, i)
		vals = append(vals, s)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []string{"x", "y", "z"}, vals)

	assert.Equal(t, []string{"x", "y", "z"}, slices.Collect(v.Values()))

	vals = vals[:0]
	for _, s := range v.Backward() {
		vals = append(vals, s)
	}
	assert.Equal(t, []string{"z", "y", "x"}, vals)
}

func TestClearAndFreeDrop(t *testing.T) {
	defer checkLeaks(t)()

	var drops dropLog
	v := vecs.New(drops.option())
	v.Extend(1, 2, 3)

	v.Clear()
	assert.Equal(t, []int{3, 2, 1}, drops.values)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 4, v.Cap())

	drops.values = nil
	v.Extend(4, 5)
	v.Free()
	assert.Equal(t, []int{5, 4}, drops.values)
	assert.Equal(t, 0, v.Cap())

	// A freed vector is empty and usable.
	v.Push(6)
	assert.Equal(t, []int{6}, v.AsSlice())
	drops.values = nil
	v.Free()
	v.Free()
	assert.Equal(t, []int{6}, drops.values)
}

func TestPoppedValuesAreNotDropped(t *testing.T) {
	var drops dropLog
	v := vecs.New(drops.option())
	v.Extend(1, 2, 3)
	v.Pop()
	v.Remove(0)
	v.Free()
	assert.Equal(t, []int{2}, drops.values)
}

func TestZeroSizedElements(t *testing.T) {
	before := alloc.Snapshot()

	drops := 0
	v := vecs.New(vecs.WithDropFunc(func(struct{}) { drops++ }))
	for range 1000 {
		v.Push(struct{}{})
	}
	assert.Equal(t, 1000, v.Len())
	assert.NotNil(t, v.Ptr())
	assert.Len(t, v.AsSlice(), 1000)

	v.Insert(500, struct{}{})
	v.Remove(0)
	_, ok := v.Pop()
	assert.True(t, ok)
	assert.Equal(t, 999, v.Len())

	v.Free()
	assert.Equal(t, 999, drops)
	assert.Equal(t, before.Allocations, alloc.Snapshot().Allocations)
}

func TestString(t *testing.T) {
	v := vecs.Of(1, 2, 3)
	assert.Equal(t, "[1 2 3]", v.String())

	it := v.IntoIter()
	assert.Equal(t, "<moved>", v.String())
	it.Close()

	assert.Equal(t, "[]", vecs.New[int]().String())
}

func TestUseAfterIntoIter(t *testing.T) {
	defer checkLeaks(t)()

	v := vecs.Of(1, 2)
	it := v.IntoIter()
	defer it.Close()

	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.IsEmpty())
	assert.Empty(t, v.AsSlice())
	assert.Empty(t, slices.Collect(v.Values()))
	requireOutOfBounds(t, func() { v.Get(0) })
	requireMisuse(t, func() { v.Push(3) })
	requireMisuse(t, func() { v.Pop() })
	requireMisuse(t, func() { v.Insert(0, 3) })
	requireMisuse(t, func() { v.Clear() })
	requireMisuse(t, func() { v.IntoIter() })
	requireMisuse(t, func() { v.Drain() })

	// Free leaves the buffer to the iterator.
	v.Free()
	got, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestMutationDuringDrain(t *testing.T) {
	defer checkLeaks(t)()

	v := vecs.Of(1, 2, 3)
	defer v.Free()

	d := v.Drain()
	requireMisuse(t, func() { v.Insert(0, 4) })
	requireMisuse(t, func() { v.Pop() })
	requireMisuse(t, func() { v.Remove(0) })
	requireMisuse(t, func() { v.Clear() })
	requireMisuse(t, func() { v.Drain() })

	d.Close()
	v.Push(4)
	assert.Equal(t, []int{4}, v.AsSlice())
}

func TestAbandonedDrain(t *testing.T) {
	t.Run("Free", func(t *testing.T) {
		defer checkLeaks(t)()

		var drops dropLog
		v := vecs.New(drops.option())
		v.Extend(1, 2, 3)
		d := v.Drain()
		got, ok := d.Next()
		require.True(t, ok)
		assert.Equal(t, 1, got)

		v.Free()
		assert.Empty(t, drops.values, "unread elements are leaked, not dropped")
		_, ok = d.Next()
		assert.False(t, ok)
		assert.Equal(t, 0, d.Len())
		d.Close()
		assert.Empty(t, drops.values)

		v.Push(9)
		assert.Equal(t, []int{9}, v.AsSlice())
		v.Free()
		assert.Equal(t, []int{9}, drops.values)
	})

	t.Run("Push", func(t *testing.T) {
		defer checkLeaks(t)()

		var drops dropLog
		v := vecs.New(drops.option())
		defer v.Free()
		v.Extend(1, 2, 3)
		d := v.Drain()
		got, ok := d.NextBack()
		require.True(t, ok)
		assert.Equal(t, 3, got)

		v.Push(9)
		v.Extend(10, 11)
		assert.Equal(t, []int{9, 10, 11}, v.AsSlice())
		assert.Equal(t, 4, v.Cap())
		_, ok = d.Next()
		assert.False(t, ok)
		d.Close()
		assert.Empty(t, drops.values)

		// The vector can open a fresh drain once the old one is forgotten.
		var drained []int
		for x := range v.Drain().Seq() {
			drained = append(drained, x)
		}
		assert.Equal(t, []int{9, 10, 11}, drained)
		assert.Empty(t, drops.values)
	})
}
