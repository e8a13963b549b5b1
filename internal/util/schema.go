package util

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// FieldViolation records a single parameter that failed validation.
type FieldViolation struct {
	Field   string `json:"field"`   // Parameter name that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// CreateSchema creates a JSON schema from a Go struct using reflection.
// This is the derivation path for tools registered without an explicit
// schema: each exported field becomes a property, required unless the
// field is a pointer or tagged omitempty.
func CreateSchema(structType any) (map[string]any, error) {
	t := reflect.TypeOf(structType)
	if t == nil {
		return nil, fmt.Errorf("cannot derive schema from nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive schema from %s, want struct", t.Kind())
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		fieldSchema := map[string]any{
			"type": getJSONType(field.Type),
		}

		if description := field.Tag.Get("description"); description != "" {
			fieldSchema["description"] = description
		}

		properties[fieldName] = fieldSchema

		if !hasOmitEmpty(field.Tag.Get("json")) && field.Type.Kind() != reflect.Ptr {
			required = append(required, fieldName)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema, nil
}

// ValidateParameters validates params against a JSON schema, applying
// best-effort coercion for primitive types (numeric strings, stringly
// booleans, whole floats as integers). It returns a normalized copy of
// the parameters with coerced values in place, or every violation
// found: missing required fields, unrecognized keys, and type mismatches
// that coercion could not repair. Unknown keys are rejected rather than
// dropped so caller mistakes surface early.
func ValidateParameters(params map[string]any, schema map[string]any) (map[string]any, []FieldViolation) {
	var violations []FieldViolation

	for _, fieldName := range requiredFields(schema) {
		if _, exists := params[fieldName]; !exists {
			violations = append(violations, FieldViolation{
				Field:   fieldName,
				Message: "required field is missing",
			})
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	normalized := make(map[string]any, len(params))

	for fieldName, value := range params {
		propSchema, exists := properties[fieldName]
		if !exists {
			violations = append(violations, FieldViolation{
				Field:   fieldName,
				Value:   value,
				Message: "unrecognized parameter",
			})
			continue
		}

		propMap, ok := propSchema.(map[string]any)
		if !ok {
			normalized[fieldName] = value
			continue
		}

		expectedType, _ := propMap["type"].(string)
		coerced, ok := CoerceValue(value, expectedType)
		if !ok {
			violations = append(violations, FieldViolation{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expectedType, value),
			})
			continue
		}
		normalized[fieldName] = coerced
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return normalized, nil
}

// requiredFields reads the schema's required list, tolerating both the
// []string shape produced by CreateSchema and the []any shape produced
// by JSON decoding.
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	default:
		return nil
	}
}

// CoerceValue checks value against the expected JSON schema type,
// coercing primitives where the intent is unambiguous. The second
// return is false when the value cannot satisfy the type.
func CoerceValue(value any, expectedType string) (any, bool) {
	if value == nil {
		return nil, true
	}

	switch expectedType {
	case "string":
		s, ok := value.(string)
		return s, ok
	case "integer":
		switch v := value.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			// JSON decoding produces float64 for all numbers.
			if v == math.Trunc(v) {
				return int(v), true
			}
			return nil, false
		case float32:
			if float64(v) == math.Trunc(float64(v)) {
				return int(v), true
			}
			return nil, false
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return int(n), true
			}
			return nil, false
		}
		return nil, false
	case "number":
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
			return nil, false
		}
		return nil, false
	case "boolean":
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, true
			}
			return nil, false
		}
		return nil, false
	case "array":
		switch value.(type) {
		case []any, []string:
			return value, true
		}
		return nil, false
	case "object":
		_, ok := value.(map[string]any)
		return value, ok
	default:
		// Unknown declared types pass through untouched.
		return value, true
	}
}

// getJSONType returns the JSON schema type for a given Go type.
func getJSONType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return getJSONType(t.Elem())
	default:
		return "string"
	}
}

// hasOmitEmpty checks if a JSON tag has the "omitempty" option.
func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}
