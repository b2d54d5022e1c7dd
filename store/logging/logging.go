// Package logging implements a store that delegates everything to a nested store,
// logging operations as they happen.
package logging

import (
	"context"
	"log"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

type Store struct {
	s      store.Store
	logger *log.Logger
}

// New produces a Store logging to the standard logger.
func New(s store.Store) *Store {
	return NewWithLogger(s, log.Default())
}

func NewWithLogger(s store.Store, logger *log.Logger) *Store {
	return &Store{s: s, logger: logger}
}

func (s *Store) Put(ctx context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	cs := &countingSource{src: src}
	id, err := s.s.Put(ctx, cs)
	if err != nil {
		s.logger.Printf("ERROR in Put: %s", err)
	} else {
		s.logger.Printf("Put %s, %d bytes in %d chunks", id, cs.bytes, cs.chunks)
	}
	return id, err
}

func (s *Store) Tag(ctx context.Context, id blobstore.ID, tag string) error {
	err := s.s.Tag(ctx, id, tag)
	if err != nil {
		s.logger.Printf("ERROR in Tag(%s, %q): %s", id, tag, err)
	} else {
		s.logger.Printf("Tag(%s, %q)", id, tag)
	}
	return err
}

func (s *Store) Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	md, err := s.s.Metadata(ctx, id)
	if err != nil {
		s.logger.Printf("ERROR in Metadata(%s): %s", id, err)
	} else {
		s.logger.Printf("Metadata(%s): size=%d, tags=%q", id, md.Size, md.Tags)
	}
	return md, err
}

type countingSource struct {
	src           blobstore.ChunkSource
	chunks, bytes int
}

func (c *countingSource) NextChunk() []byte {
	chunk := c.src.NextChunk()
	if len(chunk) > 0 {
		c.chunks++
		c.bytes += len(chunk)
	}
	return chunk
}

func init() {
	store.Register("logging", func(ctx context.Context, conf map[string]interface{}) (store.Store, error) {
		nested, err := store.CreateNested(ctx, conf)
		if err != nil {
			return nil, err
		}
		return New(nested), nil
	})
}
