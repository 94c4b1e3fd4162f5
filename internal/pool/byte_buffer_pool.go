// Package pool provides reusable byte buffers for record payloads.
package pool

import (
	"sync"
)

const (
	PayloadBufferDefaultSize  = 256
	PayloadBufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a growable byte slice that can be recycled through a Pool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer returns an empty buffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffer contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Set replaces the buffer contents with a copy of data.
func (bb *ByteBuffer) Set(data []byte) {
	bb.B = append(bb.B[:0], data...)
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// Pool recycles ByteBuffers. Buffers that grew beyond maxThreshold are
// dropped on Put so one huge record does not pin memory.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool returns a pool whose new buffers have capacity defaultSize.
// A maxThreshold of zero keeps every buffer.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. bb must not be used afterwards.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var payloadPool = NewPool(PayloadBufferDefaultSize, PayloadBufferMaxThreshold)

// GetPayloadBuffer returns a buffer from the shared payload pool.
func GetPayloadBuffer() *ByteBuffer {
	return payloadPool.Get()
}

// PutPayloadBuffer returns a buffer to the shared payload pool.
func PutPayloadBuffer(bb *ByteBuffer) {
	payloadPool.Put(bb)
}
