package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlicePool(t *testing.T) {
	t.Run("returns empty slice with capacity", func(t *testing.T) {
		ptr, cleanup := IntSlices.Get(100)
		defer cleanup()

		require.Empty(t, *ptr)
		require.GreaterOrEqual(t, cap(*ptr), 100)
	})

	t.Run("append through pointer", func(t *testing.T) {
		p := NewSlicePool[int]()
		ptr, cleanup := p.Get(1)
		*ptr = append(*ptr, 1, 2, 3)
		require.Equal(t, []int{1, 2, 3}, *ptr)
		cleanup()
		require.Empty(t, *ptr, "cleanup truncates the slice")
	})

	t.Run("reused slices are empty", func(t *testing.T) {
		p := NewSlicePool[string]()
		ptr, cleanup := p.Get(4)
		*ptr = append(*ptr, "a", "b")
		cleanup()

		again, cleanup2 := p.Get(2)
		defer cleanup2()
		require.Empty(t, *again)
	})
}
