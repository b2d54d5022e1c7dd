package blobstore

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ID is the identifier of a blob:
// the first 8 bytes of the sha256 hash of its content,
// read as a big-endian integer.
type ID uint64

// Sum computes the ID of some blob content.
func Sum(data []byte) ID {
	h := sha256.Sum256(data)
	return ID(binary.BigEndian.Uint64(h[:8]))
}

func (id ID) String() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return hex.EncodeToString(buf[:])
}

// ParseID parses the output of ID.String.
func ParseID(s string) (ID, error) {
	if len(s) != 16 {
		return 0, errors.New("wrong length")
	}
	var buf [8]byte
	if _, err := hex.Decode(buf[:], []byte(s)); err != nil {
		return 0, errors.Wrapf(err, "decoding %s", s)
	}
	return ID(binary.BigEndian.Uint64(buf[:])), nil
}

// Metadata describes a stored blob.
type Metadata struct {
	Size int      `json:"size"`
	Tags []string `json:"tags"`
}
