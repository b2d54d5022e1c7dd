package blobstore

import (
	"io"

	"github.com/pkg/errors"
)

// DefaultChunkSize is the chunk size NewReaderSource uses when given a non-positive size.
const DefaultChunkSize = 64 * 1024

// ReaderSource is a ChunkSource reading fixed-size chunks from an io.Reader.
// The final chunk may be short.
// A read error ends the sequence;
// callers should consult Err after the source is drained.
type ReaderSource struct {
	r    io.Reader
	size int
	err  error
	done bool
}

// NewReaderSource produces a ReaderSource reading chunks of the given size from r.
func NewReaderSource(r io.Reader, size int) *ReaderSource {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &ReaderSource{r: r, size: size}
}

// NextChunk implements ChunkSource.
func (s *ReaderSource) NextChunk() []byte {
	if s.done {
		return nil
	}
	buf := make([]byte, s.size)
	n, err := io.ReadFull(s.r, buf)
	switch {
	case err == io.EOF:
		s.done = true
	case err == io.ErrUnexpectedEOF:
		s.done = true
	case err != nil:
		s.err = errors.Wrap(err, "reading chunk")
		s.done = true
		return nil
	}
	return buf[:n]
}

// Err tells the read error, if any, that ended the sequence.
func (s *ReaderSource) Err() error {
	return s.err
}
