package blobstore

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
)

func TestScenario(t *testing.T) {
	s := New()

	id := s.Put(StringChunks("hel", "lo"))
	if id != Sum([]byte("hello")) {
		t.Errorf("got id %s, want %s", id, Sum([]byte("hello")))
	}
	if md := s.Metadata(id); md.Size != 5 {
		t.Errorf("got size %d, want 5", md.Size)
	}

	s.Tag(id, "greeting")
	if diff := cmp.Diff([]string{"greeting"}, s.Metadata(id).Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	id2 := s.Put(StringChunks("hello"))
	if id2 != id {
		t.Fatalf("got id %s on second put, want %s", id2, id)
	}
	md := s.Metadata(id)
	if md.Size != 5 {
		t.Errorf("got size %d after overwrite, want 5", md.Size)
	}
	if len(md.Tags) != 0 {
		t.Errorf("got tags %v after overwrite, want none", md.Tags)
	}
	if s.Len() != 1 {
		t.Errorf("got %d blobs, want 1", s.Len())
	}
}

func TestEmptyPut(t *testing.T) {
	s := New()
	id := s.Put(NewChunks())
	if id != Sum(nil) {
		t.Errorf("got id %s, want %s", id, Sum(nil))
	}
	md := s.Metadata(id)
	if md.Size != 0 {
		t.Errorf("got size %d, want 0", md.Size)
	}
	if s.Len() != 1 {
		t.Errorf("got %d blobs, want 1", s.Len())
	}

	// The empty blob is a real blob and can be tagged.
	s.Tag(id, "")
	if diff := cmp.Diff([]string{""}, s.Metadata(id).Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestMissing(t *testing.T) {
	s := New()
	id := Sum([]byte("never stored"))

	s.Tag(id, "x")
	md := s.Metadata(id)
	if md.Size != 0 || len(md.Tags) != 0 {
		t.Errorf("got %+v, want zero metadata", md)
	}
	if s.Len() != 0 {
		t.Errorf("tagging a missing blob created %d blobs", s.Len())
	}
}

func TestCollision(t *testing.T) {
	s := New()
	s.sum = func([]byte) ID { return 17 }

	id1 := s.Put(StringChunks("short"))
	s.Tag(id1, "first")
	id2 := s.Put(StringChunks("much", " longer"))
	if id1 != id2 {
		t.Fatalf("got ids %s and %s, want equal", id1, id2)
	}
	md := s.Metadata(id1)
	if md.Size != len("much longer") {
		t.Errorf("got size %d, want %d", md.Size, len("much longer"))
	}
	if len(md.Tags) != 0 {
		t.Errorf("got tags %v, want none", md.Tags)
	}
}

func TestDeterminism(t *testing.T) {
	f := func(data []byte, cuts []uint8) bool {
		var (
			whole = New().Put(NewChunks(data))
			split = New().Put(NewChunks(cut(data, cuts)...))
		)
		if whole != split {
			t.Logf("whole %s != split %s for %d bytes in %d chunks", whole, split, len(data), len(cuts)+1)
			return false
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRoundTripSize(t *testing.T) {
	s := New()
	f := func(data []byte) bool {
		id := s.Put(NewChunks(data))
		return s.Metadata(id).Size == len(data)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestTagAccumulation(t *testing.T) {
	s := New()
	id := s.Put(StringChunks("tagged"))

	tags := []string{"b", "a", "c", "a", "b", ""}
	for _, tag := range tags {
		s.Tag(id, tag)
	}
	want := []string{"", "a", "b", "c"}
	if diff := cmp.Diff(want, s.Metadata(id).Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentTags(t *testing.T) {
	s := New()
	id := s.Put(StringChunks("shared"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Tag(id, fmt.Sprintf("tag%02d", i%10))
		}(i)
	}
	wg.Wait()

	if got := len(s.Metadata(id).Tags); got != 10 {
		t.Errorf("got %d tags, want 10", got)
	}
}

func TestAssembleOrder(t *testing.T) {
	got := Assemble(StringChunks("a", "b", "c"))
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("got %q, want %q", got, "abc")
	}
	if got := Assemble(StringChunks("c", "b", "a")); bytes.Equal(got, []byte("abc")) {
		t.Error("reordered chunks assembled to the same content")
	}
}

func TestAssembleStopsAtEmpty(t *testing.T) {
	var (
		chunks = []string{"one", "", "two"}
		polls  int
	)
	src := ChunkFunc(func() []byte {
		if polls >= len(chunks) {
			t.Fatal("polled past the end")
		}
		polls++
		return []byte(chunks[polls-1])
	})
	if got := Assemble(src); string(got) != "one" {
		t.Errorf("got %q, want %q", got, "one")
	}
	if polls != 2 {
		t.Errorf("got %d polls, want 2", polls)
	}
}

// cut divides data at the given offsets (taken modulo its length).
func cut(data []byte, cuts []uint8) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var (
		result [][]byte
		pos    int
	)
	for _, c := range cuts {
		n := int(c) % (len(data) - pos + 1)
		result = append(result, data[pos:pos+n])
		pos += n
	}
	return append(result, data[pos:])
}
