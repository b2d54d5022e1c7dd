package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
)

// demo stores a two-chunk blob, tags it, and shows its tags.
func (c maincmd) demo(ctx context.Context, fs *flag.FlagSet, args []string) error {
	tag := fs.String("tag", "learning rust", "tag to apply")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	chunks := fs.Args()
	if len(chunks) == 0 {
		chunks = []string{"fearless", "concurrency"}
	}

	id, err := c.s.Put(ctx, blobstore.StringChunks(chunks...))
	if err != nil {
		return errors.Wrap(err, "storing blob")
	}
	fmt.Fprintf(c.out, "blobid = %s\n", id)

	if err = c.s.Tag(ctx, id, *tag); err != nil {
		return errors.Wrapf(err, "tagging %s", id)
	}

	md, err := c.s.Metadata(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting metadata for %s", id)
	}
	_, err = fmt.Fprintf(c.out, "tags = %q\n", md.Tags)
	return err
}
