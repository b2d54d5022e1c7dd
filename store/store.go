// Package store defines a context-aware blob store interface
// and a registry of its implementations.
package store

import (
	"context"

	"github.com/therockstorm/blobstore"
)

// Store is a blob store whose operations may block or fail,
// such as one backed by a database or a remote service.
//
// Its semantics match those of blobstore.Store:
// Put replaces any blob already stored under the same ID, discarding its tags;
// Tag on a missing blob is a no-op;
// and Metadata on a missing blob returns the zero Metadata.
// Errors report only failures of the underlying storage.
type Store interface {
	// Put drains src and stores the resulting content,
	// returning its ID.
	Put(ctx context.Context, src blobstore.ChunkSource) (blobstore.ID, error)

	// Tag adds a tag to the blob with the given ID.
	Tag(ctx context.Context, id blobstore.ID, tag string) error

	// Metadata describes the blob with the given ID.
	Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error)
}
