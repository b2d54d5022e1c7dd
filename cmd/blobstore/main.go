// Command blobstore is a CLI interface to tagged blob stores.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/bobg/subcmd"

	"github.com/therockstorm/blobstore/store"
	_ "github.com/therockstorm/blobstore/store/file"
	_ "github.com/therockstorm/blobstore/store/gcs"
	_ "github.com/therockstorm/blobstore/store/logging"
	_ "github.com/therockstorm/blobstore/store/lru"
	_ "github.com/therockstorm/blobstore/store/mem"
	_ "github.com/therockstorm/blobstore/store/pg"
	_ "github.com/therockstorm/blobstore/store/sqlite3"
)

type maincmd struct {
	s   store.Store
	in  io.Reader
	out io.Writer
}

func main() {
	config := flag.String("config", "", "path to config file (default: a fresh in-memory store)")
	flag.Parse()

	ctx := context.Background()

	s, err := storeFromConfig(ctx, *config)
	if err != nil {
		log.Fatal(err)
	}

	err = subcmd.Run(ctx, maincmd{s: s, in: os.Stdin, out: os.Stdout}, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
}

func (c maincmd) Subcmds() map[string]subcmd.Subcmd {
	return map[string]subcmd.Subcmd{
		"demo":     c.demo,
		"metadata": c.metadata,
		"put":      c.put,
		"tag":      c.tag,
	}
}
