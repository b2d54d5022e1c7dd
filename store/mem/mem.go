// Package mem implements an in-memory store.Store.
package mem

import (
	"context"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store adapts a blobstore.Store to the store.Store interface.
// Its operations never fail.
type Store struct {
	s *blobstore.Store
}

// New produces a new, empty Store.
func New() *Store {
	return Wrap(blobstore.New())
}

// Wrap produces a Store delegating to s.
func Wrap(s *blobstore.Store) *Store {
	return &Store{s: s}
}

// Put implements store.Store.
func (s *Store) Put(_ context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	return s.s.Put(src), nil
}

// Tag implements store.Store.
func (s *Store) Tag(_ context.Context, id blobstore.ID, tag string) error {
	s.s.Tag(id, tag)
	return nil
}

// Metadata implements store.Store.
func (s *Store) Metadata(_ context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	return s.s.Metadata(id), nil
}

func init() {
	store.Register("mem", func(context.Context, map[string]interface{}) (store.Store, error) {
		return New(), nil
	})
}
