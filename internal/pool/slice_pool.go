package pool

import "sync"

// SlicePool pools slices of T for reuse across encodes.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty SlicePool.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any { return &[]T{} },
		},
	}
}

// Get retrieves a zero-length slice with at least the given capacity.
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Parameters:
//   - capacity: The minimum capacity of the returned slice
//
// Returns:
//   - *[]T: Pointer to the pooled slice, append through it so growth is kept on release
//   - func(): Cleanup function that must be called (typically with defer)
//
// Example:
//
//	slots, cleanup := pool.IntSlices.Get(16)
//	defer cleanup()
//	*slots = append(*slots, pos)
func (sp *SlicePool[T]) Get(capacity int) (*[]T, func()) {
	ptr, _ := sp.pool.Get().(*[]T)
	if cap(*ptr) < capacity {
		*ptr = make([]T, 0, capacity)
	} else {
		*ptr = (*ptr)[:0]
	}

	return ptr, func() {
		clear((*ptr)[:cap(*ptr)])
		*ptr = (*ptr)[:0]
		sp.pool.Put(ptr)
	}
}

// IntSlices is the shared pool of int slices used for offset slot positions.
var IntSlices = NewSlicePool[int]()
