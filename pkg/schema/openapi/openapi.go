// Package openapi derives widget field configurations from an OpenAPI 3
// document, so a backend that already publishes its subscribe contract does
// not need a second schema for the widget.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nevent-io/go-widget/pkg/schema"
)

const displayOrderExtension = "x-display-order"

// Options controls document loading.
type Options struct {
	// OperationID selects a specific operation; empty picks the first POST
	// with a JSON request body.
	OperationID string

	// ResolveReferences validates the document and follows external refs.
	ResolveReferences bool
}

// LoadDocument resolves a Source into a Document, reading files from disk
// and fetching URLs over HTTP.
func LoadDocument(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("openapi: source is required")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case schema.SourceKindURL:
		data, err = fetchDocument(ctx, src.Location())
	default:
		return schema.Document{}, fmt.Errorf("openapi: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("openapi: load %s: %w", src.Location(), err)
	}
	return schema.NewDocument(src, data)
}

// FieldsFromDocument extracts field configurations from the request body of
// a subscribe-style operation.
func FieldsFromDocument(ctx context.Context, doc schema.Document, opts Options) ([]schema.FieldConfiguration, error) {
	data := doc.Raw()
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	body := findRequestSchema(spec, opts.OperationID)
	if body == nil || body.Value == nil {
		return nil, errors.New("openapi: no matching operation with a request body")
	}

	return fieldsFromSchema(body.Value)
}

func findRequestSchema(spec *openapi3.T, operationID string) *openapi3.SchemaRef {
	paths := make([]string, 0, spec.Paths.Len())
	for path := range spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := spec.Paths.Map()[path]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch} {
			if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
				continue
			}
			if operationID != "" && op.OperationID != operationID {
				continue
			}
			for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
				if mt, ok := op.RequestBody.Value.Content[mediaType]; ok && mt.Schema != nil {
					return mt.Schema
				}
			}
		}
	}
	return nil
}

func fieldsFromSchema(body *openapi3.Schema) ([]schema.FieldConfiguration, error) {
	if len(body.Properties) == 0 {
		return nil, errors.New("openapi: request body has no properties")
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	raw := make([]schema.RawFieldConfig, 0, len(body.Properties))
	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value

		entry := schema.RawFieldConfig{
			SemanticKey:  name,
			DisplayName:  prop.Title,
			DataType:     dataTypeFor(name, prop),
			Enabled:      true,
			Required:     required[name],
			Hint:         prop.Description,
			DisplayOrder: displayOrder(prop, i+1),
		}
		for _, value := range prop.Enum {
			entry.AllowedValues = append(entry.AllowedValues, fmt.Sprint(value))
		}
		raw = append(raw, entry)
	}

	return schema.AdaptFields(raw)
}

// dataTypeFor maps an OpenAPI property onto the wire vocabulary AdaptFields
// already understands.
func dataTypeFor(name string, prop *openapi3.Schema) string {
	if len(prop.Enum) > 0 {
		return "select"
	}
	switch firstType(prop.Type) {
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	case "string":
		switch prop.Format {
		case "email":
			return "email"
		case "uri", "url":
			return "url"
		case "date":
			return "date"
		case "date-time":
			return "date"
		}
		if strings.Contains(strings.ToLower(name), "phone") {
			return "phone"
		}
		return "string"
	default:
		return "string"
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func displayOrder(prop *openapi3.Schema, fallback int) int {
	if raw, ok := prop.Extensions[displayOrderExtension]; ok {
		switch v := raw.(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return fallback
}

func fetchDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
