package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
)

type tagsFlag []string

func (t *tagsFlag) String() string { return strings.Join(*t, ",") }

func (t *tagsFlag) Set(s string) error {
	*t = append(*t, s)
	return nil
}

func (c maincmd) put(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		dosplit = fs.Bool("split", false, "divide input into content-defined chunks")
		size    = fs.Int("chunk", blobstore.DefaultChunkSize, "chunk size when not splitting")
		tags    tagsFlag
	)
	fs.Var(&tags, "tag", "tag to add to the blob (repeatable)")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	var r io.Reader = c.in
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return errors.Wrapf(err, "opening %s", fs.Arg(0))
		}
		defer f.Close()
		r = f
	}

	var id blobstore.ID
	if *dosplit {
		chunks, err := blobstore.SplitChunks(r)
		if err != nil {
			return errors.Wrap(err, "splitting input")
		}
		id, err = c.s.Put(ctx, chunks)
		if err != nil {
			return errors.Wrap(err, "storing blob")
		}
	} else {
		src := blobstore.NewReaderSource(r, *size)
		id, err = c.s.Put(ctx, src)
		if err != nil {
			return errors.Wrap(err, "storing blob")
		}
		if err = src.Err(); err != nil {
			return errors.Wrapf(err, "reading input (stored a truncated blob as %s)", id)
		}
	}

	for _, tag := range tags {
		if err = c.s.Tag(ctx, id, tag); err != nil {
			return errors.Wrapf(err, "tagging %s", id)
		}
	}

	_, err = fmt.Fprintln(c.out, id)
	return err
}
