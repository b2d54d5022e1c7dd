// Package blobstore is an in-process, content-addressed blob store with tags.
//
// A blob store stores arbitrarily sized sequences of bytes,
// or _blobs_,
// and indexes them by an ID computed from their content.
// Callers supply a blob's content as a sequence of chunks
// (see ChunkSource),
// which the store concatenates in order before computing the ID.
// Chunk boundaries do not matter:
// the same bytes always produce the same ID,
// however they are divided.
//
// An ID is the first 64 bits of the sha2-256 hash of the content.
// That is wide enough that distinct blobs are unlikely to collide in practice,
// but narrow enough that they can.
// A collision is not detected:
// the later blob silently replaces the earlier one.
// Storing the same content twice also replaces the earlier blob,
// discarding any tags it had.
//
// Each blob carries a set of string tags.
// Tagging or describing a blob that is not in the store is not an error:
// Tag does nothing,
// and Metadata returns the zero Metadata.
//
// The Store type in this package keeps everything in memory
// and is the reference for the context-aware store.Store interface,
// which has implementations backed by SQLite, Postgresql, and Google Cloud Storage
// (in the store subpackages).
package blobstore
