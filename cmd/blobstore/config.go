package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore/store"
)

func storeFromConfig(ctx context.Context, filename string) (store.Store, error) {
	if filename == "" {
		return store.Create(ctx, "mem", nil)
	}

	var conf map[string]interface{}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config file %s", filename)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	err = dec.Decode(&conf)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding config file %s", filename)
	}

	typ, ok := conf["type"].(string)
	if !ok {
		return nil, fmt.Errorf("config file %s missing `type` parameter", filename)
	}

	s, err := store.Create(ctx, typ, conf)
	return s, errors.Wrapf(err, "creating %s-type store", typ)
}
