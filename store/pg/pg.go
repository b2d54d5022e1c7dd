// Package pg implements a store.Store on Postgresql.
package pg

import (
	"context"
	"database/sql"
	stderrs "errors"

	"github.com/bobg/sqlutil"
	_ "github.com/lib/pq" // register the postgres type for sql.Open
	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store is a Postgresql-based blob store.
type Store struct {
	db *sql.DB
}

// Schema is the SQL that New executes.
// It creates the `blobs` and `tags` tables if they do not exist.
// (If they do exist, they must have the columns, constraints, and indexing described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS blobs (
  id BIGINT PRIMARY KEY NOT NULL,
  data BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
  blob_id BIGINT NOT NULL REFERENCES blobs (id) ON DELETE CASCADE,
  tag TEXT NOT NULL,
  PRIMARY KEY (blob_id, tag)
);
`

// New produces a new Store using `db` for storage.
// It expects to create tables `blobs` and `tags`,
// or for those tables already to exist with the correct schema.
// (See variable Schema.)
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	_, err := db.ExecContext(ctx, Schema)
	return &Store{db: db}, errors.Wrap(err, "creating schema")
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, src blobstore.ChunkSource) (blobstore.ID, error) {
	var (
		data = blobstore.Assemble(src)
		id   = blobstore.Sum(data)
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	const q = `INSERT INTO blobs (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data = excluded.data`
	if _, err = tx.ExecContext(ctx, q, int64(id), data); err != nil {
		return 0, errors.Wrap(err, "inserting blob")
	}

	const q2 = `DELETE FROM tags WHERE blob_id = $1`
	if _, err = tx.ExecContext(ctx, q2, int64(id)); err != nil {
		return 0, errors.Wrap(err, "clearing tags")
	}

	return id, errors.Wrap(tx.Commit(), "committing transaction")
}

// Tag implements store.Store.
func (s *Store) Tag(ctx context.Context, id blobstore.ID, tag string) error {
	const q = `INSERT INTO tags (blob_id, tag)
		SELECT $1::BIGINT, $2::TEXT WHERE EXISTS (SELECT 1 FROM blobs WHERE id = $1::BIGINT)
		ON CONFLICT DO NOTHING`

	_, err := s.db.ExecContext(ctx, q, int64(id), tag)
	return errors.Wrapf(err, "tagging blob %s", id)
}

// Metadata implements store.Store.
func (s *Store) Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	const q = `SELECT octet_length(data) FROM blobs WHERE id = $1`

	var md blobstore.Metadata
	err := s.db.QueryRowContext(ctx, q, int64(id)).Scan(&md.Size)
	if stderrs.Is(err, sql.ErrNoRows) {
		return blobstore.Metadata{}, nil
	}
	if err != nil {
		return blobstore.Metadata{}, errors.Wrapf(err, "getting size of blob %s", id)
	}

	const q2 = `SELECT tag FROM tags WHERE blob_id = $1 ORDER BY tag COLLATE "C"`
	err = sqlutil.ForQueryRows(ctx, s.db, q2, int64(id), func(tag string) {
		md.Tags = append(md.Tags, tag)
	})
	return md, errors.Wrapf(err, "querying tags of blob %s", id)
}

func init() {
	store.Register("pg", func(ctx context.Context, conf map[string]interface{}) (store.Store, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("postgres", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(ctx, db)
	})
}
