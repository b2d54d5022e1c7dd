// Package file implements a store.Store as a file hierarchy.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bobg/flock"
	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store is a file-based implementation of a blob store.
// Each blob's content lives in its own file,
// with its tags in a JSON file alongside.
// A file lock per blob serializes updates among processes sharing the root;
// a mutex does the same among goroutines.
type Store struct {
	root    string
	flocker flock.Locker

	mu sync.Mutex
}

// New produces a new Store storing data beneath `root`.
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) dir(id blobstore.ID) string {
	h := id.String()
	return filepath.Join(s.root, h[:2], h[:4])
}

func (s *Store) blobpath(id blobstore.ID) string {
	return filepath.Join(s.dir(id), id.String())
}

func (s *Store) tagspath(id blobstore.ID) string {
	return s.blobpath(id) + ".tags"
}

func (s *Store) lockpath(id blobstore.ID) string {
	return s.blobpath(id) + ".lock"
}

func (s *Store) withLock(id blobstore.ID, f func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.dir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "ensuring path %s exists", dir)
	}
	path := s.lockpath(id)
	if err := s.flocker.Lock(path); err != nil {
		return errors.Wrapf(err, "locking %s", path)
	}
	defer s.flocker.Unlock(path)

	return f()
}

// Put implements store.Store.
func (s *Store) Put(_ context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	var (
		data = blobstore.Assemble(src)
		id   = blobstore.Sum(data)
	)
	err := s.withLock(id, func() error {
		path := s.blobpath(id)
		if err := writeFile(path, data); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		tpath := s.tagspath(id)
		if err := os.Remove(tpath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", tpath)
		}
		return nil
	})
	return id, err
}

// Tag implements store.Store.
func (s *Store) Tag(_ context.Context, id blobstore.ID, tag string) error {
	return s.withLock(id, func() error {
		if _, err := os.Stat(s.blobpath(id)); os.IsNotExist(err) {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "statting blob %s", id)
		}

		tags, err := s.readTags(id)
		if err != nil {
			return err
		}
		for _, t := range tags {
			if t == tag {
				return nil
			}
		}
		tags = append(tags, tag)
		sort.Strings(tags)

		b, err := json.Marshal(tags)
		if err != nil {
			return errors.Wrap(err, "marshaling tags")
		}
		tpath := s.tagspath(id)
		return errors.Wrapf(writeFile(tpath, b), "writing %s", tpath)
	})
}

// Metadata implements store.Store.
func (s *Store) Metadata(_ context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	var md blobstore.Metadata
	err := s.withLock(id, func() error {
		info, err := os.Stat(s.blobpath(id))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "statting blob %s", id)
		}
		md.Size = int(info.Size())
		md.Tags, err = s.readTags(id)
		return err
	})
	return md, err
}

// Lock must be held.
func (s *Store) readTags(id blobstore.ID) ([]string, error) {
	path := s.tagspath(id)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var tags []string
	err = json.Unmarshal(b, &tags)
	return tags, errors.Wrapf(err, "unmarshaling %s", path)
}

// writeFile replaces the file at path by writing a temporary file and renaming it.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpname := f.Name()
	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpname)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmpname)
		return err
	}
	return os.Rename(tmpname, path)
}

func init() {
	store.Register("file", func(_ context.Context, conf map[string]interface{}) (store.Store, error) {
		root, ok := conf["root"].(string)
		if !ok {
			return nil, errors.New(`missing "root" parameter`)
		}
		return New(root), nil
	})
}
