package gcs

import (
	"context"
	"os"
	"reflect"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/therockstorm/blobstore/testutil"
)

func TestAddTag(t *testing.T) {
	cases := []struct {
		tag       string
		wantAdded bool
	}{
		{tag: "m", wantAdded: true},
		{tag: "a", wantAdded: true},
		{tag: "z", wantAdded: true},
		{tag: "m", wantAdded: false},
		{tag: "", wantAdded: true},
		{tag: "", wantAdded: false},
	}

	var tags []string
	for i, c := range cases {
		var added bool
		tags, added = addTag(tags, c.tag)
		if added != c.wantAdded {
			t.Errorf("case %d: adding %q got added=%v, want %v", i+1, c.tag, added, c.wantAdded)
		}
	}
	want := []string{"", "a", "m", "z"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("got %v, want %v", tags, want)
	}
}

func TestEncodeTags(t *testing.T) {
	md := map[string]string{"other": "x"}
	enc, err := encodeTags(md, []string{"a b", `q"uote`})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := md[tagsKey]; ok {
		t.Error("encodeTags modified its input")
	}
	if enc["other"] != "x" {
		t.Error("encodeTags dropped an unrelated key")
	}
	got, err := decodeTags(enc)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a b", `q"uote`}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = decodeTags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v from empty metadata", got)
	}
}

const (
	credsVar  = "BLOBSTORE_GCS_TESTING_CREDS"
	bucketVar = "BLOBSTORE_GCS_TESTING_BUCKET"
)

func TestStore(t *testing.T) {
	var (
		creds      = os.Getenv(credsVar)
		bucketName = os.Getenv(bucketVar)
	)
	if creds == "" || bucketName == "" {
		t.Skipf("to run %s, set %s to the name of a credentials file and %s to the name of an existing bucket", t.Name(), credsVar, bucketVar)
	}

	ctx := context.Background()
	c, err := storage.NewClient(ctx, option.WithCredentialsFile(creds))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	s := New(c.Bucket(bucketName))
	t.Run("scenario", func(t *testing.T) { testutil.Scenario(ctx, t, s) })
	t.Run("empty", func(t *testing.T) { testutil.EmptyPut(ctx, t, s) })
	t.Run("missing", func(t *testing.T) { testutil.MissingID(ctx, t, s) })
}
