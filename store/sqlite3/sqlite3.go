// Package sqlite3 implements a store.Store on SQLite.
package sqlite3

import (
	"context"
	"database/sql"
	stderrs "errors"

	"github.com/bobg/sqlutil"
	_ "github.com/mattn/go-sqlite3" // register the sqlite3 type for sql.Open
	"github.com/pkg/errors"

	"github.com/therockstorm/blobstore"
	"github.com/therockstorm/blobstore/store"
)

var _ store.Store = &Store{}

// Store is a SQLite-based blob store.
type Store struct {
	db *sql.DB
}

// Schema is the SQL that New executes.
// It creates the `blobs` and `tags` tables if they do not exist.
// (If they do exist, they must have the columns, constraints, and indexing described here.)
//
// IDs are stored as their two's-complement int64 equivalents,
// since SQLite integers are signed.
const Schema = `
CREATE TABLE IF NOT EXISTS blobs (
  id INTEGER PRIMARY KEY NOT NULL,
  data BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
  blob_id INTEGER NOT NULL,
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
	const q = `INSERT OR IGNORE INTO tags (blob_id, tag)
		SELECT $1, $2 WHERE EXISTS (SELECT 1 FROM blobs WHERE id = $1)`

	_, err := s.db.ExecContext(ctx, q, int64(id), tag)
	return errors.Wrapf(err, "tagging blob %s", id)
}

// Metadata implements store.Store.
func (s *Store) Metadata(ctx context.Context, id blobstore.ID) (blobstore.Metadata, error) {
	const q = `SELECT length(data) FROM blobs WHERE id = $1`

	var md blobstore.Metadata
	err := s.db.QueryRowContext(ctx, q, int64(id)).Scan(&md.Size)
	if stderrs.Is(err, sql.ErrNoRows) {
		return blobstore.Metadata{}, nil
	}
	if err != nil {
		return blobstore.Metadata{}, errors.Wrapf(err, "getting size of blob %s", id)
	}

	const q2 = `SELECT tag FROM tags WHERE blob_id = $1 ORDER BY tag`
	err = sqlutil.ForQueryRows(ctx, s.db, q2, int64(id), func(tag string) {
		md.Tags = append(md.Tags, tag)
	})
	return md, errors.Wrapf(err, "querying tags of blob %s", id)
}

// Open opens the SQLite database named by conn and produces a Store on it.
// SQLite permits one writer at a time,
// so the database handle is limited to a single connection.
// That also keeps an in-memory database (conn ":memory:") from being split across connections.
func Open(ctx context.Context, conn string) (*Store, error) {
	db, err := sql.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrap(err, "opening db")
	}
	db.SetMaxOpenConns(1)
	return New(ctx, db)
}

func init() {
	store.Register("sqlite3", func(ctx context.Context, conf map[string]interface{}) (store.Store, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		return Open(ctx, conn)
	})
}
