package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nevent-io/go-widget/pkg/schema"
	"github.com/nevent-io/go-widget/pkg/schema/openapi"
)

func testDoc(payload string) schema.Document {
	return schema.MustNewDocument(schema.SourceFromFile("subscribe.json"), []byte(payload))
}

const subscribeDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "subscribe", "version": "1.0.0"},
  "paths": {
    "/public/widget/{id}/subscribe": {
      "post": {
        "operationId": "subscribe",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string", "format": "email", "title": "Email", "x-display-order": 1},
                  "firstName": {"type": "string", "title": "First name", "x-display-order": 2},
                  "age": {"type": "integer", "title": "Age", "x-display-order": 3},
                  "plan": {"type": "string", "enum": ["free", "pro"], "title": "Plan", "x-display-order": 4},
                  "website": {"type": "string", "format": "uri", "title": "Website", "x-display-order": 5}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestFieldsFromDocument(t *testing.T) {
	fields, err := openapi.FieldsFromDocument(context.Background(), testDoc(subscribeDoc), openapi.Options{})
	if err != nil {
		t.Fatalf("FieldsFromDocument: %v", err)
	}

	byName := make(map[string]schema.FieldConfiguration, len(fields))
	var order []string
	for _, f := range fields {
		byName[f.FieldName] = f
		order = append(order, f.FieldName)
	}

	wantOrder := []string{"email", "firstName", "age", "plan", "website"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if f := byName["email"]; f.Type != schema.FieldTypeEmail || !f.Required {
		t.Fatalf("email = %+v", f)
	}
	if f := byName["age"]; f.Type != schema.FieldTypeNumber || f.Required {
		t.Fatalf("age = %+v", f)
	}
	if f := byName["website"]; f.Type != schema.FieldTypeURL {
		t.Fatalf("website = %+v", f)
	}

	plan := byName["plan"]
	if plan.Type != schema.FieldTypeSelect {
		t.Fatalf("plan = %+v", plan)
	}
	wantOptions := []schema.Option{{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"}}
	if diff := cmp.Diff(wantOptions, plan.Options); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsFromDocumentNoBody(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "empty", "version": "1.0.0"},
  "paths": {"/ping": {"get": {"responses": {"200": {"description": "ok"}}}}}
}`
	if _, err := openapi.FieldsFromDocument(context.Background(), testDoc(doc), openapi.Options{}); err == nil {
		t.Fatal("expected error for document without request bodies")
	}
}

func TestFieldsFromDocumentEmptyPayload(t *testing.T) {
	if _, err := openapi.FieldsFromDocument(context.Background(), schema.Document{}, openapi.Options{}); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestLoadDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribe.json")
	if err := os.WriteFile(path, []byte(subscribeDoc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	doc, err := openapi.LoadDocument(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Source().Kind() != schema.SourceKindFile {
		t.Fatalf("source kind = %q", doc.Source().Kind())
	}

	fields, err := openapi.FieldsFromDocument(context.Background(), doc, openapi.Options{})
	if err != nil {
		t.Fatalf("FieldsFromDocument: %v", err)
	}
	if len(fields) != 5 {
		t.Fatalf("fields = %d, want 5", len(fields))
	}
}

func TestLoadDocumentFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(subscribeDoc))
	}))
	defer srv.Close()

	src, err := schema.SourceFromURL(srv.URL + "/openapi.json")
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}
	doc, err := openapi.LoadDocument(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatal("expected non-empty payload")
	}
}

func TestLoadDocumentRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := schema.SourceFromURL(srv.URL)
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}
	if _, err := openapi.LoadDocument(context.Background(), src); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestFieldsFromDocumentOperationFilter(t *testing.T) {
	if _, err := openapi.FieldsFromDocument(context.Background(), testDoc(subscribeDoc), openapi.Options{
		OperationID: "does-not-exist",
	}); err == nil {
		t.Fatal("expected error for unknown operation id")
	}

	fields, err := openapi.FieldsFromDocument(context.Background(), testDoc(subscribeDoc), openapi.Options{
		OperationID: "subscribe",
	})
	if err != nil {
		t.Fatalf("FieldsFromDocument: %v", err)
	}
	if len(fields) != 5 {
		t.Fatalf("fields = %d, want 5", len(fields))
	}
}
