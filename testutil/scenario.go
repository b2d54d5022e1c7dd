// Package testutil contains checks that any store.Store implementation should pass.
package testutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

// Conformance runs every check in this package,
// each against a fresh store from storeFactory.
func Conformance(ctx context.Context, t *testing.T, storeFactory func() store.Store) {
	t.Run("scenario", func(t *testing.T) { Scenario(ctx, t, storeFactory()) })
	t.Run("empty", func(t *testing.T) { EmptyPut(ctx, t, storeFactory()) })
	t.Run("missing", func(t *testing.T) { MissingID(ctx, t, storeFactory()) })
	t.Run("determinism", func(t *testing.T) { Determinism(ctx, t, storeFactory()) })
	t.Run("roundtrip", func(t *testing.T) { RoundTrip(ctx, t, storeFactory()) })
	t.Run("tags", func(t *testing.T) { TagAccumulation(ctx, t, storeFactory()) })
}

// Scenario stores "hello" in two chunks,
// tags it,
// and stores it again in one chunk,
// checking the metadata at each step.
func Scenario(ctx context.Context, t *testing.T, s store.Store) {
	id, err := s.Put(ctx, blobstore.StringChunks("hel", "lo"))
	if err != nil {
		t.Fatal(err)
	}
	if want := blobstore.Sum([]byte("hello")); id != want {
		t.Errorf("got id %s, want %s", id, want)
	}
	checkMetadata(ctx, t, s, id, 5, nil)

	if err = s.Tag(ctx, id, "greeting"); err != nil {
		t.Fatal(err)
	}
	checkMetadata(ctx, t, s, id, 5, []string{"greeting"})

	id2, err := s.Put(ctx, blobstore.StringChunks("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if id2 != id {
		t.Fatalf("got id %s on second put, want %s", id2, id)
	}
	checkMetadata(ctx, t, s, id, 5, nil)
}

// EmptyPut stores a blob with no chunks at all.
func EmptyPut(ctx context.Context, t *testing.T, s store.Store) {
	id, err := s.Put(ctx, blobstore.NewChunks())
	if err != nil {
		t.Fatal(err)
	}
	if want := blobstore.Sum(nil); id != want {
		t.Errorf("got id %s, want %s", id, want)
	}
	checkMetadata(ctx, t, s, id, 0, nil)

	if err = s.Tag(ctx, id, ""); err != nil {
		t.Fatal(err)
	}
	checkMetadata(ctx, t, s, id, 0, []string{""})
}

// MissingID tags and describes a blob that was never stored.
func MissingID(ctx context.Context, t *testing.T, s store.Store) {
	id := blobstore.Sum([]byte("never stored"))

	if err := s.Tag(ctx, id, "x"); err != nil {
		t.Fatal(err)
	}
	checkMetadata(ctx, t, s, id, 0, nil)

	// Storing other content does not make the missing blob appear.
	if _, err := s.Put(ctx, blobstore.StringChunks("other")); err != nil {
		t.Fatal(err)
	}
	checkMetadata(ctx, t, s, id, 0, nil)
}

func checkMetadata(ctx context.Context, t *testing.T, s store.Store, id blobstore.ID, wantSize int, wantTags []string) {
	t.Helper()

	md, err := s.Metadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if md.Size != wantSize {
		t.Errorf("got size %d for %s, want %d", md.Size, id, wantSize)
	}
	if len(wantTags) == 0 && len(md.Tags) == 0 {
		return
	}
	if diff := cmp.Diff(wantTags, md.Tags); diff != "" {
		t.Errorf("tags mismatch for %s (-want +got):\n%s", id, diff)
	}
}
