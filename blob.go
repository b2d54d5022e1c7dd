package blobstore

import "sort"

// Blob is one stored object: its content plus a set of tags.
type Blob struct {
	data []byte
	tags map[string]struct{}
}

func newBlob(data []byte) *Blob {
	return &Blob{data: data, tags: make(map[string]struct{})}
}

// Metadata projects b onto a Metadata value.
// Tags are sorted.
func (b *Blob) Metadata() Metadata {
	md := Metadata{Size: len(b.data)}
	for tag := range b.tags {
		md.Tags = append(md.Tags, tag)
	}
	sort.Strings(md.Tags)
	return md
}
