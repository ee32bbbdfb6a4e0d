package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is the subset of JSON Schema every oracle backend can express.
// Format is advisory and not enforced by Check.
type Schema struct {
	Name        string             `json:"-"`
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Format      string             `json:"format,omitempty"`
	Nullable    bool               `json:"-"`
}

// PropertyNames returns property names in a stable order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Check verifies a decoded JSON value against s. Absent or null
// non-required properties are accepted.
func (s *Schema) Check(v interface{}) error {
	return s.check("$", v)
}

func (s *Schema) check(path string, v interface{}) error {
	if v == nil {
		if s.Nullable {
			return nil
		}
		return fmt.Errorf("%s: null not allowed", path)
	}

	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return typeErr(path, s.Type, v)
		}
		for _, name := range s.Required {
			if val, ok := obj[name]; !ok || val == nil {
				return fmt.Errorf("%s.%s: required", path, name)
			}
		}
		for _, name := range s.PropertyNames() {
			val, ok := obj[name]
			if !ok || (val == nil && !slices.Contains(s.Required, name)) {
				continue
			}
			if err := s.Properties[name].check(path+"."+name, val); err != nil {
				return err
			}
		}
	case TypeArray:
		arr, ok := v.([]interface{})
		if !ok {
			return typeErr(path, s.Type, v)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := s.Items.check(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return typeErr(path, s.Type, v)
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			return fmt.Errorf("%s: %q not in %v", path, str, s.Enum)
		}
	case TypeNumber, TypeInteger:
		n, err := number(v)
		if err != nil {
			return typeErr(path, s.Type, v)
		}
		if s.Type == TypeInteger && n != math.Trunc(n) {
			return fmt.Errorf("%s: %v is not an integer", path, n)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeErr(path, s.Type, v)
		}
	}
	return nil
}

func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("not a number")
}

func typeErr(path string, want SchemaType, v interface{}) error {
	return fmt.Errorf("%s: want %s, got %T", path, want, v)
}

// DecodeChecked validates raw JSON against schema and then decodes it into dest.
// Failures are returned as schema errors for provider.
func DecodeChecked(provider string, raw []byte, schema *Schema, dest interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return SchemaFailure(provider, fmt.Errorf("empty output"))
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return SchemaFailure(provider, fmt.Errorf("output is not JSON: %w", err))
	}
	if schema != nil {
		if err := schema.Check(generic); err != nil {
			return SchemaFailure(provider, err)
		}
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return SchemaFailure(provider, fmt.Errorf("decode %s: %w", schema.nameOr("output"), err))
	}
	return nil
}

func (s *Schema) nameOr(def string) string {
	if s == nil || s.Name == "" {
		return def
	}
	return s.Name
}
