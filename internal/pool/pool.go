// Package pool wraps sync.Pool with type safety and provides the byte
// buffer pool the gateway reads response bodies into.
package pool

import (
	"bytes"
	"sync"
)

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}

// BufferPool hands out reset bytes.Buffers. Buffers that grew beyond
// maxRetain bytes are dropped on Put so one large body does not pin memory.
type BufferPool struct {
	p         *Pool[*bytes.Buffer]
	maxRetain int
}

// NewBufferPool creates a buffer pool. maxRetain <= 0 retains every buffer.
func NewBufferPool(initialSize, maxRetain int) *BufferPool {
	return &BufferPool{
		p: New(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, initialSize))
		}),
		maxRetain: maxRetain,
	}
}

// Get returns an empty buffer.
func (b *BufferPool) Get() *bytes.Buffer {
	buf := b.p.Get()
	buf.Reset()
	return buf
}

// Put returns buf to the pool unless it is nil or oversized.
func (b *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if b.maxRetain > 0 && buf.Cap() > b.maxRetain {
		return
	}
	b.p.Put(buf)
}
