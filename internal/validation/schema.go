// Package validation is the gate every content write passes through before
// it reaches the store.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"folio/site/internal/content"
)

// ErrInvalid is wrapped by every *ValidationError.
var ErrInvalid = errors.New("invalid payload")

// contentSchema is an open record: every known field is optional and typed,
// unknown fields are allowed and passed through untouched.
const contentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": true,
  "properties": {
    "id": {"type": "string"},
    "title": {"type": "string"},
    "subtitle": {"type": "string"},
    "slug": {"type": "string"},
    "author": {
      "type": "object",
      "additionalProperties": true,
      "properties": {
        "name": {"type": "string"},
        "credentials": {"type": "array", "items": {"type": "string"}},
        "linkedin": {"type": "string"},
        "email": {"type": "string"}
      }
    },
    "publishedDate": {"type": "string"},
    "lawArea": {"type": "string"},
    "jurisdiction": {"type": "string"},
    "contentType": {"type": "string"},
    "isPolicyRecommendation": {"type": "boolean"},
    "policyTheme": {"type": "string"},
    "content": {"type": "string"},
    "excerpt": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "featured": {"type": "boolean"},
    "categoryPath": {"type": "string"}
  }
}`

var knownFields = map[string]struct{}{
	"id": {}, "title": {}, "subtitle": {}, "slug": {}, "author": {},
	"publishedDate": {}, "lawArea": {}, "jurisdiction": {}, "contentType": {},
	"isPolicyRecommendation": {}, "policyTheme": {}, "content": {}, "excerpt": {},
	"tags": {}, "featured": {}, "categoryPath": {},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Payload is a validated content payload.
type Payload struct {
	Item content.Item
	// Extra holds fields the schema does not know about, unchanged.
	Extra map[string]any
}

// ValidationError lists every violation found, keyed by field path
// ("title", "author.credentials.0"). The document root is keyed "_root".
type ValidationError struct {
	Issues map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalid.Error()
	}
	fields := make([]string, 0, len(e.Issues))
	for field := range e.Issues {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Issues[field], ", ")))
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks payload against the content schema and decodes it. tags
// defaults to an empty list, as does author.credentials when an author is
// present. A nil payload is treated as an empty object.
func Validate(payload map[string]any) (*Payload, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	schema, err := contentSchemaCompiled()
	if err != nil {
		return nil, fmt.Errorf("compile content schema: %w", err)
	}
	if err := schema.Validate(normalize(payload)); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, &ValidationError{Issues: collectIssues(verr)}
		}
		return nil, fmt.Errorf("validate content: %w", err)
	}

	known := make(map[string]any, len(payload))
	extra := make(map[string]any)
	for key, value := range payload {
		if _, ok := knownFields[key]; ok {
			known[key] = value
			continue
		}
		extra[key] = value
	}

	encoded, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("encode content payload: %w", err)
	}
	var item content.Item
	if err := json.Unmarshal(encoded, &item); err != nil {
		return nil, fmt.Errorf("decode content payload: %w", err)
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Author != nil && item.Author.Credentials == nil {
		item.Author.Credentials = []string{}
	}
	return &Payload{Item: item, Extra: extra}, nil
}

// Issues returns the field issues carried by err, or nil.
func Issues(err error) map[string][]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Issues
	}
	return nil
}

func contentSchemaCompiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("content.json", bytes.NewReader([]byte(contentSchema))); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile("content.json")
	})
	return compiled, compileErr
}

// normalize round-trips the payload through JSON so Go-typed values
// ([]string, int) look like decoded JSON to the validator.
func normalize(payload map[string]any) any {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	var out any
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	if err := decoder.Decode(&out); err != nil {
		return payload
	}
	return out
}

func collectIssues(err *jsonschema.ValidationError) map[string][]string {
	issues := make(map[string][]string)
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			field := fieldPath(node.InstanceLocation)
			issues[field] = append(issues[field], strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// fieldPath turns a JSON pointer ("/author/credentials/0") into a dotted
// path ("author.credentials.0").
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	pointer = strings.Trim(pointer, "/")
	if pointer == "" {
		return "_root"
	}
	segments := strings.Split(pointer, "/")
	for i, segment := range segments {
		segments[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(segment)
	}
	return strings.Join(segments, ".")
}
