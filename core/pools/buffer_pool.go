package pools

import (
	"io"
	"sync"
	"sync/atomic"
)

// Buffer tiers for request bodies
const (
	SmallBufferSize  = 2 * 1024  // 2KB for small JSON documents
	MediumBufferSize = 8 * 1024  // 8KB for typical payloads
	LargeBufferSize  = 32 * 1024 // 32KB for larger uploads
)

// readChunk is the minimum free space kept before each Read
const readChunk = 512

// BufferPool hands out body buffers from three size tiers.
// Buffers that grew past LargeBufferSize are left to the GC.
type BufferPool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool

	// Statistics
	smallHits  atomic.Uint64
	mediumHits atomic.Uint64
	largeHits  atomic.Uint64
	totalGets  atomic.Uint64
	oversized  atomic.Uint64
}

// NewBufferPool creates a new buffer pool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small:  sync.Pool{New: newBuffer(SmallBufferSize)},
		medium: sync.Pool{New: newBuffer(MediumBufferSize)},
		large:  sync.Pool{New: newBuffer(LargeBufferSize)},
	}
}

func newBuffer(size int) func() any {
	return func() any {
		buf := make([]byte, 0, size)
		return &buf
	}
}

// Get acquires an empty buffer sized for estimatedSize bytes
func (bp *BufferPool) Get(estimatedSize int) *[]byte {
	bp.totalGets.Add(1)

	switch {
	case estimatedSize <= SmallBufferSize:
		bp.smallHits.Add(1)
		return bp.small.Get().(*[]byte)
	case estimatedSize <= MediumBufferSize:
		bp.mediumHits.Add(1)
		return bp.medium.Get().(*[]byte)
	default:
		bp.largeHits.Add(1)
		return bp.large.Get().(*[]byte)
	}
}

// Put returns a buffer to the tier matching its capacity
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}

	*buf = (*buf)[:0]

	switch c := cap(*buf); {
	case c <= SmallBufferSize:
		bp.small.Put(buf)
	case c <= MediumBufferSize:
		bp.medium.Put(buf)
	case c <= LargeBufferSize:
		bp.large.Put(buf)
	default:
		bp.oversized.Add(1)
	}
}

// ReadAll reads r to EOF into a pooled buffer, in arrival order.
// The caller must Put the buffer back once done with its contents.
// On error the buffer has already been returned.
func (bp *BufferPool) ReadAll(r io.Reader, estimatedSize int) (*[]byte, error) {
	buf := bp.Get(estimatedSize)
	b := *buf

	for {
		if cap(b)-len(b) < readChunk {
			b = append(b, make([]byte, readChunk)...)[:len(b)]
		}

		n, err := r.Read(b[len(b):cap(b)])
		b = b[:len(b)+n]

		if err == io.EOF {
			*buf = b
			return buf, nil
		}
		if err != nil {
			*buf = b
			bp.Put(buf)
			return nil, err
		}
	}
}

// Stats returns buffer pool statistics
func (bp *BufferPool) Stats() BufferStats {
	return BufferStats{
		SmallHits:  bp.smallHits.Load(),
		MediumHits: bp.mediumHits.Load(),
		LargeHits:  bp.largeHits.Load(),
		TotalGets:  bp.totalGets.Load(),
		Oversized:  bp.oversized.Load(),
	}
}

// BufferStats contains buffer pool statistics
type BufferStats struct {
	SmallHits  uint64
	MediumHits uint64
	LargeHits  uint64
	TotalGets  uint64
	Oversized  uint64
}
