package testutil

import (
	"context"
	"sort"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var quickConfig = &quick.Config{MaxCount: 25}

// Determinism stores random content twice,
// once whole and once divided into random chunks,
// and makes sure both puts produce the same ID.
func Determinism(ctx context.Context, t *testing.T, s store.Store) {
	f := func(data []byte, cuts []uint8) bool {
		whole, err := s.Put(ctx, blobstore.NewChunks(data))
		if err != nil {
			t.Fatal(err)
		}
		split, err := s.Put(ctx, blobstore.NewChunks(Cut(data, cuts)...))
		if err != nil {
			t.Fatal(err)
		}
		if whole != split {
			t.Logf("whole %s != split %s for %d bytes", whole, split, len(data))
			return false
		}
		return whole == blobstore.Sum(data)
	}
	if err := quick.Check(f, quickConfig); err != nil {
		t.Error(err)
	}
}

// RoundTrip stores random content and makes sure its reported size is right.
func RoundTrip(ctx context.Context, t *testing.T, s store.Store) {
	f := func(data []byte) bool {
		id, err := s.Put(ctx, blobstore.NewChunks(data))
		if err != nil {
			t.Fatal(err)
		}
		md, err := s.Metadata(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if md.Size != len(data) {
			t.Logf("got size %d, want %d", md.Size, len(data))
			return false
		}
		return true
	}
	if err := quick.Check(f, quickConfig); err != nil {
		t.Error(err)
	}
}

// TagAccumulation applies random sequences of tags (with repeats) to a fresh blob
// and makes sure the blob ends up with exactly the distinct tags applied.
func TagAccumulation(ctx context.Context, t *testing.T, s store.Store) {
	f := func(content string, tags []string) bool {
		id, err := s.Put(ctx, blobstore.StringChunks(content))
		if err != nil {
			t.Fatal(err)
		}

		wantSet := make(map[string]struct{})
		for _, tag := range append(tags, tags...) {
			wantSet[tag] = struct{}{}
			if err := s.Tag(ctx, id, tag); err != nil {
				t.Fatal(err)
			}
		}
		want := make([]string, 0, len(wantSet))
		for tag := range wantSet {
			want = append(want, tag)
		}
		sort.Strings(want)

		md, err := s.Metadata(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		got := append([]string{}, md.Tags...)
		sort.Strings(got)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Logf("tags mismatch (-want +got):\n%s", diff)
			return false
		}
		return true
	}
	if err := quick.Check(f, quickConfig); err != nil {
		t.Error(err)
	}
}

// Cut divides data at the given offsets (taken modulo the remaining length).
func Cut(data []byte, cuts []uint8) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var (
		result [][]byte
		pos    int
	)
	for _, c := range cuts {
		n := int(c) % (len(data) - pos + 1)
		result = append(result, data[pos:pos+n])
		pos += n
	}
	return append(result, data[pos:])
}
