package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(ChunkSize)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(0)

	bb.MustWrite([]byte("hello"))
	bb.MustWriteByte(' ')
	bb.MustWrite([]byte("world"))
	bb.MustWrite(nil)

	assert.Equal(t, []byte("hello world"), bb.Bytes())
	assert.Equal(t, ChunkSize, bb.Cap(), "first growth allocates one chunk")
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(ChunkSize)
		bb.Grow(100)
		assert.Equal(t, ChunkSize, bb.Cap(), "should not reallocate when capacity is sufficient")
	})

	t.Run("rounds up to whole chunks", func(t *testing.T) {
		bb := NewByteBuffer(ChunkSize)
		bb.MustWrite(make([]byte, ChunkSize))

		bb.Grow(1)
		assert.Equal(t, 2*ChunkSize, bb.Cap())
		assert.Equal(t, ChunkSize, bb.Len(), "length should not change")
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3*ChunkSize + 7)
		assert.Equal(t, 4*ChunkSize, bb.Cap())
	})

	t.Run("exact multiple", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(2 * ChunkSize)
		assert.Equal(t, 2*ChunkSize, bb.Cap())
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.MustWrite([]byte{1, 2, 3, 4})
		bb.Grow(ChunkSize)
		assert.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
	})
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{9, 9})

	start := bb.ExtendOrGrow(2)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, bb.Len())
	assert.Equal(t, 4, bb.Cap(), "fits without growth")

	start = bb.ExtendOrGrow(10)
	assert.Equal(t, 4, start)
	assert.Equal(t, 14, bb.Len())
	assert.Equal(t, ChunkSize, bb.Cap())
	assert.Equal(t, []byte{9, 9}, bb.B[:2])
}

func TestImageBufferPool(t *testing.T) {
	bb := GetImageBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), ChunkSize)

	bb.MustWrite([]byte("payload"))
	PutImageBuffer(bb)
	PutImageBuffer(nil)

	reused := GetImageBuffer()
	assert.Equal(t, 0, reused.Len(), "pooled buffers come back empty")
	PutImageBuffer(reused)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	large := NewByteBuffer(128)
	p.Put(large)

	bb := p.Get()
	assert.NotSame(t, large, bb, "buffers over the threshold are discarded")
	assert.Equal(t, 16, bb.Cap())
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := GetImageBuffer()
				bb.MustWriteByte(byte(id))
				assert.Equal(t, 1, bb.Len())
				PutImageBuffer(bb)
			}
		}(i)
	}
	wg.Wait()
}
