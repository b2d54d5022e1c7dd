// Package lru implements a store.Store that caches blob metadata from a nested store.Store.
package lru

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store implements a memory-based least-recently-used cache of blob metadata.
// Writes pass through to the underlying store
// and evict the affected entry.
type Store struct {
	s store.Store

	mu sync.Mutex // serializes writes with cache fills
	c  *lru.Cache // ID->Metadata
}

// New produces a new Store backed by `s` and caching metadata for up to `size` blobs.
func New(s store.Store, size int) (*Store, error) {
	c, err := lru.New(size)
	return &Store{s: s, c: c}, errors.Wrap(err, "creating cache")
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.s.Put(ctx, src)
	if err != nil {
		return id, err
	}
	s.c.Remove(id)
	return id, nil
}

// Tag implements store.Store.
func (s *Store) Tag(ctx context.Context, id blobstore.ID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.s.Tag(ctx, id, tag)
	s.c.Remove(id)
	return err
}

// Metadata implements store.Store.
func (s *Store) Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if got, ok := s.c.Get(id); ok {
		return clone(got.(blobstore.Metadata)), nil
	}
	md, err := s.s.Metadata(ctx, id)
	if err != nil {
		return md, err
	}
	s.c.Add(id, clone(md))
	return md, nil
}

// Len tells the number of cached entries.
func (s *Store) Len() int {
	return s.c.Len()
}

func clone(md blobstore.Metadata) blobstore.Metadata {
	if md.Tags != nil {
		md.Tags = append([]string(nil), md.Tags...)
	}
	return md
}

func init() {
	store.Register("lru", func(ctx context.Context, conf map[string]interface{}) (store.Store, error) {
		size, err := intParam(conf, "size")
		if err != nil {
			return nil, err
		}
		nested, err := store.CreateNested(ctx, conf)
		if err != nil {
			return nil, err
		}
		return New(nested, size)
	})
}

// intParam reads an integer parameter,
// which may be an int (from code) or a json.Number (from a config file).
func intParam(conf map[string]interface{}, key string) (int, error) {
	switch v := conf[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case interface{ Int64() (int64, error) }:
		n, err := v.Int64()
		return int(n), errors.Wrapf(err, "parsing %q parameter", key)
	}
	return 0, errors.Errorf(`missing "%s" parameter`, key)
}
