package pool_test

import (
	"sync"
	"testing"

	"github.com/jroosing/fireportal/internal/pool"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Generic Pool
// =============================================================================

func TestPool_GetAndPut(t *testing.T) {
	bufPool := pool.New(func() []byte {
		return make([]byte, 1024)
	})

	buf := bufPool.Get()
	assert.Len(t, buf, 1024)
	bufPool.Put(buf)

	buf2 := bufPool.Get()
	assert.Len(t, buf2, 1024)
}

func TestPool_ConstructorCalled(t *testing.T) {
	callCount := 0
	p := pool.New(func() int {
		callCount++
		return callCount
	})

	// Nothing was put back, so each Get constructs.
	assert.Equal(t, 1, p.Get())
	assert.Equal(t, 2, p.Get())
	assert.Equal(t, 2, callCount)
}

// =============================================================================
// BufferPool
// =============================================================================

func TestBufferPool_GetIsEmpty(t *testing.T) {
	bp := pool.NewBufferPool(512, 0)

	buf := bp.Get()
	assert.Equal(t, 0, buf.Len())
	assert.GreaterOrEqual(t, buf.Cap(), 512)

	buf.WriteString("<html>previous response</html>")
	bp.Put(buf)

	again := bp.Get()
	assert.Equal(t, 0, again.Len(), "buffers must be reset before reuse")
}

func TestBufferPool_PutNilAndOversized(t *testing.T) {
	bp := pool.NewBufferPool(16, 64)

	bp.Put(nil)

	big := bp.Get()
	big.Write(make([]byte, 1024))
	bp.Put(big)

	buf := bp.Get()
	assert.Equal(t, 0, buf.Len())
}

func TestBufferPool_ConcurrentAccess(t *testing.T) {
	bp := pool.NewBufferPool(256, 4096)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				buf := bp.Get()
				buf.WriteString("chunk")
				bp.Put(buf)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkBufferPool_GetPut(b *testing.B) {
	bp := pool.NewBufferPool(32*1024, 1<<20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := bp.Get()
		buf.WriteString("x")
		bp.Put(buf)
	}
}
