package blobstore

import "sync"

// Store is an in-memory blob store.
// Blobs are addressed by the ID of their content
// and carry a set of string tags.
//
// A single mutex guards the blob map and every tag set,
// so a Store may be used from multiple goroutines.
type Store struct {
	mu    sync.Mutex
	blobs map[ID]*Blob
	sum   func([]byte) ID
}

// New produces a new, empty Store.
func New() *Store {
	return &Store{
		blobs: make(map[ID]*Blob),
		sum:   Sum,
	}
}

// Put drains src and stores the resulting content,
// returning its ID.
// A blob already stored under that ID is replaced,
// and its tags are discarded.
func (s *Store) Put(src ChunkSource) ID {
	data := Assemble(src)
	id := s.sum(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[id] = newBlob(data)
	return id
}

// Tag adds a tag to the blob with the given ID.
// It is a no-op if there is no such blob.
func (s *Store) Tag(id ID, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.blobs[id]; ok {
		b.tags[tag] = struct{}{}
	}
}

// Metadata describes the blob with the given ID.
// If there is no such blob,
// the result is the zero Metadata.
func (s *Store) Metadata(id ID) Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.blobs[id]; ok {
		return b.Metadata()
	}
	return Metadata{}
}

// Len tells the number of blobs in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.blobs)
}
