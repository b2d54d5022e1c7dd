package lru

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
	"github.com/therockstorm/blobstore/store/mem"
	"github.com/therockstorm/blobstore/testutil"
)

func TestStore(t *testing.T) {
	testutil.Conformance(context.Background(), t, func() store.Store {
		s, err := New(mem.New(), 1000)
		if err != nil {
			t.Fatal(err)
		}
		return s
	})
}

func TestConcurrent(t *testing.T) {
	s, err := New(mem.New(), 10)
	if err != nil {
		t.Fatal(err)
	}
	testutil.Concurrent(context.Background(), t, s)
}

func TestInvalidation(t *testing.T) {
	ctx := context.Background()
	s, err := New(mem.New(), 2)
	if err != nil {
		t.Fatal(err)
	}

	id, err := s.Put(ctx, blobstore.StringChunks("cached"))
	if err != nil {
		t.Fatal(err)
	}
	md, err := s.Metadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Tags) != 0 || s.Len() != 1 {
		t.Fatalf("got %+v with %d cached entries", md, s.Len())
	}

	// Mutating the returned value must not affect the cache.
	md.Tags = append(md.Tags, "bogus")

	if err = s.Tag(ctx, id, "fresh"); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("got %d cached entries after Tag, want 0", s.Len())
	}
	md, err = s.Metadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Tags) != 1 || md.Tags[0] != "fresh" {
		t.Errorf("got tags %v, want [fresh]", md.Tags)
	}

	if _, err = s.Put(ctx, blobstore.StringChunks("cac", "hed")); err != nil {
		t.Fatal(err)
	}
	md, err = s.Metadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Tags) != 0 {
		t.Errorf("got tags %v after overwrite, want none", md.Tags)
	}
}

func TestRegistry(t *testing.T) {
	var conf map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(`{"type": "lru", "size": 5, "nested": {"type": "mem"}}`))
	dec.UseNumber()
	if err := dec.Decode(&conf); err != nil {
		t.Fatal(err)
	}
	s, err := store.Create(context.Background(), "lru", conf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Store); !ok {
		t.Fatalf("got %T, want *Store", s)
	}

	delete(conf, "size")
	if _, err = store.Create(context.Background(), "lru", conf); err == nil {
		t.Error("created lru store without a size")
	}
}
