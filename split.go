package blobstore

import (
	"io"

	"github.com/bobg/hashsplit"
	"github.com/pkg/errors"
)

// SplitOption configures SplitChunks.
type SplitOption func(*hashsplit.Splitter)

// MinSize sets the minimum size of a chunk produced by SplitChunks.
func MinSize(n int) SplitOption {
	return func(spl *hashsplit.Splitter) {
		spl.MinSize = n
	}
}

// SplitBits sets the number of trailing zero bits in the rolling checksum
// that mark a chunk boundary.
// The average chunk size is about 2^n bytes.
func SplitBits(n uint) SplitOption {
	return func(spl *hashsplit.Splitter) {
		spl.SplitBits = n
	}
}

// SplitChunks reads r to the end,
// dividing its content into chunks at content-defined boundaries
// (see github.com/bobg/hashsplit).
// The result is a ChunkSource yielding those chunks.
func SplitChunks(r io.Reader, opts ...SplitOption) (*Chunks, error) {
	c := &Chunks{}
	spl := hashsplit.NewSplitter(func(chunk []byte, _ uint) error {
		if len(chunk) == 0 {
			return nil
		}
		cp := make([]byte, len(chunk))
		copy(cp, chunk)
		c.chunks = append(c.chunks, cp)
		return nil
	})
	spl.MinSize = 1024
	spl.SplitBits = 14
	for _, opt := range opts {
		opt(spl)
	}

	if _, err := io.Copy(spl, r); err != nil {
		return nil, errors.Wrap(err, "splitting input")
	}
	if err := spl.Close(); err != nil {
		return nil, errors.Wrap(err, "flushing splitter")
	}
	return c, nil
}
