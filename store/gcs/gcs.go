// Package gcs implements a store.Store on Google Cloud Storage.
package gcs

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"net/http"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store is a Google Cloud Storage-based implementation of a blob store.
// Each blob is an object named for its ID.
// Its tags are kept in the object's custom metadata.
type Store struct {
	bucket *storage.BucketHandle
}

// New produces a new Store.
func New(bucket *storage.BucketHandle) *Store {
	return &Store{bucket: bucket}
}

const (
	tagsKey = "tags"

	// Tag is a read-modify-write of object metadata,
	// guarded by a metageneration precondition.
	// This is how many times it tries before giving up.
	maxTagAttempts = 5
)

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	var (
		data = blobstore.Assemble(src)
		id   = blobstore.Sum(data)
		name = blobObjName(id)
		w    = s.bucket.Object(name).NewWriter(ctx)
	)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return 0, errors.Wrapf(err, "writing object %s", name)
	}
	return id, errors.Wrapf(w.Close(), "closing object %s", name)
}

// Tag implements store.Store.
func (s *Store) Tag(ctx context.Context, id blobstore.ID, tag string) error {
	name := blobObjName(id)
	obj := s.bucket.Object(name)

	for i := 0; i < maxTagAttempts; i++ {
		attrs, err := obj.Attrs(ctx)
		if stderrs.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "getting object attrs for %s", name)
		}

		tags, err := decodeTags(attrs.Metadata)
		if err != nil {
			return errors.Wrapf(err, "decoding tags for %s", name)
		}
		tags, added := addTag(tags, tag)
		if !added {
			return nil
		}
		md, err := encodeTags(attrs.Metadata, tags)
		if err != nil {
			return errors.Wrapf(err, "encoding tags for %s", name)
		}

		_, err = obj.If(storage.Conditions{MetagenerationMatch: attrs.Metageneration}).Update(ctx, storage.ObjectAttrsToUpdate{Metadata: md})
		var e *googleapi.Error
		if stderrs.As(err, &e) && e.Code == http.StatusPreconditionFailed {
			continue
		}
		if stderrs.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return errors.Wrapf(err, "updating object attrs for %s", name)
	}
	return errors.Errorf("tagging %s: too much contention", name)
}

// Metadata implements store.Store.
func (s *Store) Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	name := blobObjName(id)
	attrs, err := s.bucket.Object(name).Attrs(ctx)
	if stderrs.Is(err, storage.ErrObjectNotExist) {
		return blobstore.Metadata{}, nil
	}
	if err != nil {
		return blobstore.Metadata{}, errors.Wrapf(err, "getting object attrs for %s", name)
	}
	tags, err := decodeTags(attrs.Metadata)
	if err != nil {
		return blobstore.Metadata{}, errors.Wrapf(err, "decoding tags for %s", name)
	}
	return blobstore.Metadata{Size: int(attrs.Size), Tags: tags}, nil
}

func blobObjName(id blobstore.ID) string {
	return "b:" + id.String()
}

func decodeTags(md map[string]string) ([]string, error) {
	j, ok := md[tagsKey]
	if !ok || j == "" {
		return nil, nil
	}
	var tags []string
	err := json.Unmarshal([]byte(j), &tags)
	return tags, err
}

// encodeTags produces a copy of md with its tags entry replaced.
func encodeTags(md map[string]string, tags []string) (map[string]string, error) {
	j, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(md)+1)
	for k, v := range md {
		result[k] = v
	}
	result[tagsKey] = string(j)
	return result, nil
}

// addTag inserts tag into the sorted slice tags,
// reporting whether it was not already present.
func addTag(tags []string, tag string) ([]string, bool) {
	i := sort.SearchStrings(tags, tag)
	if i < len(tags) && tags[i] == tag {
		return tags, false
	}
	tags = append(tags, "")
	copy(tags[i+1:], tags[i:])
	tags[i] = tag
	return tags, true
}

func init() {
	store.Register("gcs", func(ctx context.Context, conf map[string]interface{}) (store.Store, error) {
		var options []option.ClientOption
		creds, ok := conf["creds"].(string)
		if !ok {
			return nil, errors.New(`missing "creds" parameter`)
		}
		bucketName, ok := conf["bucket"].(string)
		if !ok {
			return nil, errors.New(`missing "bucket" parameter`)
		}
		options = append(options, option.WithCredentialsFile(creds))
		c, err := storage.NewClient(ctx, options...)
		if err != nil {
			return nil, errors.Wrap(err, "creating cloud storage client")
		}
		return New(c.Bucket(bucketName)), nil
	})
}
