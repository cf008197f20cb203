// Package alloc is the single process-wide allocator behind every container
// in this module.
//
// Memory still comes from the Go runtime, but each block is registered when
// it is handed out and checked off when it is returned. That turns the
// ownership rules the containers rely on into something observable: a
// release of a block that is not live is a double free and fails an
// assertion, and [Snapshot] reports how many blocks and bytes are still
// outstanding, which is how the tests prove the absence of leaks.
//
// Allocation failure is not an error value. A request whose byte size does
// not fit in an int, or that the runtime refuses, goes to [HandleAllocError],
// which logs through the configured [Logger] and terminates the process.
package alloc

import (
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
)

type block struct {
	ptr    unsafe.Pointer
	layout Layout
}

type allocator struct {
	mu    sync.Mutex
	live  map[uintptr]block
	stats Stats
	cfg   config
}

var global = &allocator{
	live: make(map[uintptr]block),
	cfg:  defaultConfig(),
}

// Allocate returns a zeroed block of n Ts. n must be positive and T must not
// be zero-sized; neither ever needs memory.
func Allocate[T any](n int) []T {
	if n <= 0 || IsZeroSized[T]() {
		panic(errors.AssertionFailedf("allocate of %d elements of layout %s", n, LayoutOf[T]()))
	}
	layout, err := ArrayLayout[T](n)
	if err != nil {
		HandleAllocError(err)
	}
	b := makeBlock[T](n, layout)
	global.register(unsafe.Pointer(unsafe.SliceData(b)), layout)
	return b
}

// Grow moves the contents of old into a new block of newCap elements and
// releases old. An empty old block is simply allocated.
func Grow[T any](old []T, newCap int) []T {
	if len(old) == 0 {
		return Allocate[T](newCap)
	}
	if newCap <= len(old) {
		panic(errors.AssertionFailedf("grow from %d to %d elements", len(old), newCap))
	}
	layout, err := ArrayLayout[T](newCap)
	if err != nil {
		HandleAllocError(err)
	}
	oldLayout, _ := ArrayLayout[T](len(old))
	b := makeBlock[T](newCap, layout)
	copy(b, old)
	global.move(unsafe.Pointer(unsafe.SliceData(old)), oldLayout, unsafe.Pointer(unsafe.SliceData(b)), layout)
	clear(old)
	return b
}

// Deallocate releases a block obtained from Allocate or Grow. The whole
// block must be passed back, not a subslice.
func Deallocate[T any](b []T) {
	if len(b) == 0 {
		panic(errors.AssertionFailedf("deallocate of an empty block"))
	}
	layout, _ := ArrayLayout[T](len(b))
	global.unregister(unsafe.Pointer(unsafe.SliceData(b)), layout)
	clear(b)
}

// New allocates a single zeroed T.
func New[T any]() *T {
	layout := LayoutOf[T]()
	if layout.Size == 0 {
		panic(errors.AssertionFailedf("allocate of a zero-sized object"))
	}
	p := new(T)
	global.register(unsafe.Pointer(p), layout)
	return p
}

// Free releases an object obtained from New and zeroes it.
func Free[T any](p *T) {
	if p == nil {
		panic(errors.AssertionFailedf("free of a nil pointer"))
	}
	global.unregister(unsafe.Pointer(p), LayoutOf[T]())
	var zero T
	*p = zero
}

// HandleAllocError reports an unrecoverable allocation failure. It does not
// return.
func HandleAllocError(err error) {
	global.mu.Lock()
	logger := global.cfg.logger
	global.mu.Unlock()

	logger.Fatalf("memory allocation failed: %v", err)
	// Fatalf is expected to exit; a logger that returns must not let the
	// caller continue with a missing block.
	panic(err)
}

// makeBlock converts the runtime's recoverable makeslice panic into a fatal
// allocation error.
func makeBlock[T any](n int, layout Layout) []T {
	defer func() {
		if r := recover(); r != nil {
			HandleAllocError(errors.Newf("allocating %s: %v", layout, r))
		}
	}()
	return make([]T, n)
}

func (a *allocator) register(ptr unsafe.Pointer, layout Layout) {
	a.mu.Lock()
	a.live[uintptr(ptr)] = block{ptr: ptr, layout: layout}
	a.stats.Allocations++
	a.stats.addLive(1, int64(layout.Size))
	logger, threshold := a.cfg.logger, a.cfg.largeAllocThreshold
	a.mu.Unlock()

	if threshold > 0 && layout.Size >= threshold {
		logger.Infof("large allocation: %s", layout)
	}
}

func (a *allocator) unregister(ptr unsafe.Pointer, layout Layout) {
	a.mu.Lock()
	err := a.checkLiveLocked(ptr, layout)
	if err == nil {
		delete(a.live, uintptr(ptr))
		a.stats.Frees++
		a.stats.addLive(-1, -int64(layout.Size))
	}
	a.mu.Unlock()
	if err != nil {
		panic(err)
	}
}

func (a *allocator) move(oldPtr unsafe.Pointer, oldLayout Layout, newPtr unsafe.Pointer, newLayout Layout) {
	a.mu.Lock()
	if err := a.checkLiveLocked(oldPtr, oldLayout); err != nil {
		a.mu.Unlock()
		panic(err)
	}
	delete(a.live, uintptr(oldPtr))
	a.live[uintptr(newPtr)] = block{ptr: newPtr, layout: newLayout}
	a.stats.Grows++
	a.stats.addLive(0, int64(newLayout.Size)-int64(oldLayout.Size))
	logger, threshold := a.cfg.logger, a.cfg.largeAllocThreshold
	a.mu.Unlock()

	if threshold > 0 && newLayout.Size >= threshold && oldLayout.Size < threshold {
		logger.Infof("large allocation: grew %s to %s", oldLayout, newLayout)
	}
}

func (a *allocator) checkLiveLocked(ptr unsafe.Pointer, layout Layout) error {
	b, ok := a.live[uintptr(ptr)]
	if !ok {
		return errors.AssertionFailedf("double free of %s block at %p", layout, ptr)
	}
	if b.layout != layout {
		return errors.AssertionFailedf("free of %s block at %p with layout %s", b.layout, ptr, layout)
	}
	return nil
}
