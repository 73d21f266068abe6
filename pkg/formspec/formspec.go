// Package formspec derives the form description for the QR generation
// endpoint from an embedded OpenAPI document. The document is the source of
// truth for field labels, help text, and defaults rendered by the web and
// terminal front ends.
package formspec

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-qrform/pkg/model"
)

//go:embed qrcode.json
var documentJSON []byte

// Operation describes the generation endpoint as declared in the embedded
// document, with its request properties merged into the field catalog.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Fields      []model.Field
}

// Load parses the embedded document and returns the generation operation.
func Load(ctx context.Context) (*Operation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(documentJSON)
	if err != nil {
		return nil, fmt.Errorf("formspec: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("formspec: document does not contain any paths")
	}

	for path, item := range spec.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		return convertOperation(path, item.Post)
	}
	return nil, errors.New("formspec: no POST operation found")
}

func convertOperation(path string, operation *openapi3.Operation) (*Operation, error) {
	schema, err := requestSchema(operation.RequestBody)
	if err != nil {
		return nil, err
	}

	op := &Operation{
		ID:          operation.OperationID,
		Method:      "POST",
		Path:        path,
		Summary:     sanitizeText(operation.Summary),
		Description: sanitizeText(operation.Description),
		Fields:      mergeFields(schema),
	}
	if op.ID == "" {
		op.ID = "post:" + path
	}
	return op, nil
}

func requestSchema(requestBody *openapi3.RequestBodyRef) (*openapi3.Schema, error) {
	if requestBody == nil || requestBody.Value == nil {
		return nil, errors.New("formspec: operation has no request body")
	}
	mt, ok := requestBody.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, errors.New("formspec: request body has no JSON schema")
	}
	return mt.Schema.Value, nil
}

// mergeFields overlays the document's property metadata onto the field
// catalog. Catalog order wins; properties the catalog does not know about are
// ignored.
func mergeFields(schema *openapi3.Schema) []model.Field {
	fields := model.Fields()
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	for i := range fields {
		property, ok := schema.Properties[fields[i].Name]
		if !ok || property == nil || property.Value == nil {
			continue
		}
		src := property.Value
		if text := sanitizeText(src.Description); text != "" {
			fields[i].Description = text
		}
		if schemaType := firstSchemaType(src.Type); schemaType != "" && fields[i].Type != model.FieldTypeColor {
			fields[i].Type = model.FieldType(schemaType)
		}
		if src.Default != nil {
			fields[i].Default = fmt.Sprintf("%v", src.Default)
		}
		fields[i].Required = required[fields[i].Name]
	}
	return fields
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup from document strings before they reach a
// template or terminal prompt.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}
