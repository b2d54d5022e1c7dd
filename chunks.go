package blobstore

import "bytes"

// ChunkSource produces the content of a blob as a sequence of chunks.
// A zero-length chunk signals the end of the content.
// Once it has done so, a ChunkSource must not be polled again.
type ChunkSource interface {
	NextChunk() []byte
}

// ChunkFunc is a function implementing ChunkSource.
type ChunkFunc func() []byte

// NextChunk implements ChunkSource.
func (f ChunkFunc) NextChunk() []byte { return f() }

// Chunks is an in-memory ChunkSource.
// It yields its chunks once, in order.
type Chunks struct {
	chunks [][]byte
	pos    int
}

// NewChunks produces a Chunks yielding the given chunks.
// Empty chunks are dropped,
// since they would end the sequence early.
func NewChunks(chunks ...[]byte) *Chunks {
	c := &Chunks{}
	for _, chunk := range chunks {
		if len(chunk) > 0 {
			c.chunks = append(c.chunks, chunk)
		}
	}
	return c
}

// StringChunks is a convenience wrapper for NewChunks.
func StringChunks(chunks ...string) *Chunks {
	bb := make([][]byte, 0, len(chunks))
	for _, s := range chunks {
		bb = append(bb, []byte(s))
	}
	return NewChunks(bb...)
}

// NextChunk implements ChunkSource.
func (c *Chunks) NextChunk() []byte {
	if c.pos >= len(c.chunks) {
		return nil
	}
	chunk := c.chunks[c.pos]
	c.pos++
	return chunk
}

// Len tells the number of chunks not yet consumed.
func (c *Chunks) Len() int {
	return len(c.chunks) - c.pos
}

// Assemble drains src,
// concatenating its chunks in the order produced.
// The result is never nil.
func Assemble(src ChunkSource) []byte {
	buf := bytes.NewBuffer([]byte{})
	for {
		chunk := src.NextChunk()
		if len(chunk) == 0 {
			break
		}
		buf.Write(chunk)
	}
	return buf.Bytes()
}
