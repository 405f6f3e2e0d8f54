package schema_test

import (
	"bytes"
	"testing"

	"github.com/nevent-io/go-widget/pkg/schema"
)

func TestNewDocumentValidatesInputs(t *testing.T) {
	if _, err := schema.NewDocument(nil, []byte("{}")); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := schema.NewDocument(schema.SourceFromFile("doc.json"), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}

	doc, err := schema.NewDocument(schema.SourceFromFile("dir/../doc.json"), []byte("{}"))
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if doc.Location() != "doc.json" {
		t.Fatalf("location = %q, want cleaned path", doc.Location())
	}
}

func TestDocumentRawIsCopied(t *testing.T) {
	payload := []byte(`{"a":1}`)
	doc := schema.MustNewDocument(schema.SourceFromFile("doc.json"), payload)

	raw := doc.Raw()
	raw[0] = 'X'
	if !bytes.Equal(doc.Raw(), payload) {
		t.Fatal("mutating Raw() result leaked into the document")
	}
}

func TestSourceFromURLValidates(t *testing.T) {
	if _, err := schema.SourceFromURL(""); err == nil {
		t.Fatal("expected error for empty URL")
	}
	if _, err := schema.SourceFromURL("not a url"); err == nil {
		t.Fatal("expected error for malformed URL")
	}

	src, err := schema.SourceFromURL("https://api.example.com/openapi.json")
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}
	if src.Kind() != schema.SourceKindURL {
		t.Fatalf("kind = %q", src.Kind())
	}
}
