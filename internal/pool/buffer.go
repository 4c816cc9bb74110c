// Package pool provides pooled buffers for assembling document bodies.
package pool

import (
	"strconv"
	"sync"
)

// Default sizes of pooled document buffers.
const (
	DefaultSize  = 4 << 10   // 4KiB
	MaxThreshold = 512 << 10 // 512KiB
)

// RowBuffer assembles rows of tokens separated by a field delimiter, with
// rows separated by a row delimiter. No delimiter follows the last row.
type RowBuffer struct {
	B []byte

	fieldDelim byte
	rowDelim   byte
	rows       int
	tokens     int // tokens in the current row
}

// NewRow starts a row, writing the row delimiter unless it is the first.
func (rb *RowBuffer) NewRow() {
	if rb.rows > 0 {
		rb.B = append(rb.B, rb.rowDelim)
	}
	rb.rows++
	rb.tokens = 0
}

// Token appends tok to the current row.
func (rb *RowBuffer) Token(tok string) {
	rb.sep()
	rb.B = append(rb.B, tok...)
}

// Int appends the decimal form of n to the current row.
func (rb *RowBuffer) Int(n int64) {
	rb.sep()
	rb.B = strconv.AppendInt(rb.B, n, 10)
}

func (rb *RowBuffer) sep() {
	if rb.tokens > 0 {
		rb.B = append(rb.B, rb.fieldDelim)
	}
	rb.tokens++
}

// Rows returns the number of rows started.
func (rb *RowBuffer) Rows() int { return rb.rows }

// Len returns the number of bytes written.
func (rb *RowBuffer) Len() int { return len(rb.B) }

// String returns a copy of the contents.
func (rb *RowBuffer) String() string { return string(rb.B) }

// Reset empties the buffer, keeping its memory.
func (rb *RowBuffer) Reset() {
	rb.B = rb.B[:0]
	rb.rows = 0
	rb.tokens = 0
}

// RowBufferPool recycles RowBuffers sharing the same delimiters.
//
// Buffers that grew beyond the pool's threshold are dropped on Put.
type RowBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewRowBufferPool creates a pool of buffers with the given initial capacity and delimiters.
func NewRowBufferPool(defaultSize, maxThreshold int, fieldDelim, rowDelim byte) *RowBufferPool {
	return &RowBufferPool{
		pool: sync.Pool{
			New: func() any {
				return &RowBuffer{
					B:          make([]byte, 0, defaultSize),
					fieldDelim: fieldDelim,
					rowDelim:   rowDelim,
				}
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *RowBufferPool) Get() *RowBuffer {
	rb, _ := p.pool.Get().(*RowBuffer)
	return rb
}

// Put returns rb to the pool.
func (p *RowBufferPool) Put(rb *RowBuffer) {
	if rb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(rb.B) > p.maxThreshold {
		return
	}

	rb.Reset()
	p.pool.Put(rb)
}
