package schema

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

// SourceKind enumerates where a schema document can come from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
)

// Source identifies the origin of a schema document so loaders can work on
// files and URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to an on-disk document.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type urlSource struct {
	raw string
}

func (s urlSource) Kind() SourceKind { return SourceKindURL }
func (s urlSource) Location() string { return s.raw }

// SourceFromURL returns a Source referencing an HTTP endpoint. The URL is
// validated here so configuration mistakes surface before any request is
// made.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// Document wraps a raw schema payload together with its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
