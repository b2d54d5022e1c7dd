package testutil

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

// Concurrent tags one blob from several goroutines at once
// and makes sure no tag is lost.
func Concurrent(ctx context.Context, t *testing.T, s store.Store) {
	const (
		workers = 8
		perWork = 10
	)

	id, err := s.Put(ctx, blobstore.StringChunks("shared ", "blob"))
	if err != nil {
		t.Fatal(err)
	}

	eg, ctx2 := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			for i := 0; i < perWork; i++ {
				if err := s.Tag(ctx2, id, fmt.Sprintf("w%d-%d", w, i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	md, err := s.Metadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Tags) != workers*perWork {
		t.Errorf("got %d tags, want %d", len(md.Tags), workers*perWork)
	}
}
