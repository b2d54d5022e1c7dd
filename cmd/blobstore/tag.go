package main

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
)

func (c maincmd) tag(ctx context.Context, fs *flag.FlagSet, args []string) error {
	idstr := fs.String("id", "", "ID of blob to tag")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	id, err := blobstore.ParseID(*idstr)
	if err != nil {
		return errors.Wrapf(err, "decoding ID %s", *idstr)
	}
	for _, tag := range fs.Args() {
		if err = c.s.Tag(ctx, id, tag); err != nil {
			return errors.Wrapf(err, "tagging %s", id)
		}
	}
	return nil
}

type metadataOutput struct {
	ID   string   `json:"id"`
	Size int      `json:"size"`
	Tags []string `json:"tags"`
}

func (c maincmd) metadata(ctx context.Context, fs *flag.FlagSet, args []string) error {
	idstr := fs.String("id", "", "ID of blob to describe")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	id, err := blobstore.ParseID(*idstr)
	if err != nil {
		return errors.Wrapf(err, "decoding ID %s", *idstr)
	}
	md, err := c.s.Metadata(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting metadata for %s", id)
	}

	out := metadataOutput{ID: id.String(), Size: md.Size, Tags: md.Tags}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return json.NewEncoder(c.out).Encode(out)
}
