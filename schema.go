// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vaultconf

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema is an interface for validators. Validate method checks raw value and
// returns the typed result or an error with structured details (preferably
// *ValidationError).
type Schema[T any] interface {
	Validate(raw map[string]any) (T, error)
}

// SchemaFunc type is an adapter to allow the use of ordinary functions as
// schemas.
type SchemaFunc[T any] func(raw map[string]any) (T, error)

// Validate calls f(raw).
func (f SchemaFunc[T]) Validate(raw map[string]any) (T, error) {
	return f(raw)
}

// Validate function is the final step of configuration and secrets loading.
// It passes raw value through the schema. The error returned by the schema is
// returned as is.
func Validate[T any](raw map[string]any, schema Schema[T]) (T, error) {
	if schema == nil {
		panic(fmt.Errorf("%s: no schema specified", errPref))
	}

	if raw == nil {
		raw = map[string]any{}
	}

	return schema.Validate(raw)
}

// Transform function creates schema, that validates raw value with the given
// schema and then remaps the result with fn. Errors returned by fn are
// returned as is.
func Transform[T, U any](schema Schema[T], fn func(T) (U, error)) Schema[U] {
	return SchemaFunc[U](
		func(raw map[string]any) (U, error) {
			value, err := schema.Validate(raw)

			if err != nil {
				var zero U
				return zero, err
			}

			return fn(value)
		},
	)
}

type structSchema[T any] struct {
	root *node
}

type node struct {
	types      []string
	resolved   *jsonschema.Resolved
	required   map[string]struct{}
	properties map[string]*node
}

// StructSchema function creates schema from the struct type T. Fields are
// mapped by json tags; fields without omitempty are required. The function
// panics if JSON Schema cannot be inferred from T.
func StructSchema[T any]() Schema[T] {
	schema, err := NewStructSchema[T]()

	if err != nil {
		panic(err)
	}

	return schema
}

// NewStructSchema function is like StructSchema, but returns an error instead
// of panic.
func NewStructSchema[T any]() (Schema[T], error) {
	js, err := jsonschema.For[T](nil)

	if err != nil {
		return nil, fmt.Errorf("%s: can't infer schema: %w", errPref, err)
	}

	root, err := compile(js)

	if err != nil {
		return nil, err
	}

	return &structSchema[T]{root: root}, nil
}

func compile(js *jsonschema.Schema) (*node, error) {
	n := &node{
		types: schemaTypes(js),
	}

	if !isObject(js) {
		resolved, err := js.Resolve(nil)

		if err != nil {
			return nil, fmt.Errorf("%s: can't resolve schema: %w", errPref, err)
		}

		n.resolved = resolved

		return n, nil
	}

	n.required = make(map[string]struct{}, len(js.Required))

	for _, name := range js.Required {
		n.required[name] = struct{}{}
	}

	n.properties = make(map[string]*node, len(js.Properties))

	for name, prop := range js.Properties {
		child, err := compile(prop)

		if err != nil {
			return nil, err
		}

		n.properties[name] = child
	}

	return n, nil
}

func (s *structSchema[T]) Validate(raw map[string]any) (T, error) {
	var result T
	issues := s.root.check(nil, raw)

	if len(issues) > 0 {
		return result, NewValidationError(issues...)
	}

	err := Decode(raw, &result)

	if err != nil {
		return result, NewValidationError(
			Issue{
				Code:    CodeInvalid,
				Message: err.Error(),
			},
		)
	}

	return result, nil
}

func (n *node) check(path []string, value any) []Issue {
	if n.properties == nil {
		err := n.resolved.Validate(value)

		if err == nil {
			return nil
		}

		received := jsonType(value)

		if !typeMatches(n.types, received) {
			expected := strings.Join(n.types, " | ")

			return []Issue{
				{
					Path:     path,
					Code:     CodeInvalidType,
					Expected: expected,
					Received: received,
					Message:  fmt.Sprintf("Expected %s, received %s", expected, received),
				},
			}
		}

		return []Issue{
			{
				Path:     path,
				Code:     CodeInvalid,
				Received: received,
				Message:  err.Error(),
			},
		}
	}

	object, ok := value.(map[string]any)

	if !ok {
		received := jsonType(value)

		return []Issue{
			{
				Path:     path,
				Code:     CodeInvalidType,
				Expected: "object",
				Received: received,
				Message:  fmt.Sprintf("Expected object, received %s", received),
			},
		}
	}

	names := make([]string, 0, len(n.properties))

	for name := range n.properties {
		names = append(names, name)
	}

	sort.Strings(names)

	var issues []Issue

	for _, name := range names {
		propPath := append(append([]string(nil), path...), name)
		propValue, ok := object[name]

		if !ok {
			if _, required := n.required[name]; required {
				expected := strings.Join(n.properties[name].types, " | ")

				issues = append(issues,
					Issue{
						Path:     propPath,
						Code:     CodeRequired,
						Expected: expected,
						Received: "undefined",
						Message:  "Required",
					},
				)
			}

			continue
		}

		issues = append(issues, n.properties[name].check(propPath, propValue)...)
	}

	return issues
}

// isObject reports whether the schema describes a struct: an object with
// known properties and no schema for additional ones. Maps are validated as
// leaves.
func isObject(js *jsonschema.Schema) bool {
	if js.Properties != nil {
		return true
	}

	if js.Type != "object" {
		return false
	}

	return js.AdditionalProperties == nil || js.AdditionalProperties.Not != nil
}

func schemaTypes(js *jsonschema.Schema) []string {
	if js.Type != "" {
		return []string{js.Type}
	}

	return js.Types
}

func typeMatches(types []string, received string) bool {
	if len(types) == 0 {
		return true
	}

	for _, t := range types {
		if t == received || (t == "number" && received == "integer") {
			return true
		}
	}

	return false
}

func jsonType(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v == float64(int64(v)) {
			return "integer"
		}

		return "number"
	case float32:
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return "integer"
		}

		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
