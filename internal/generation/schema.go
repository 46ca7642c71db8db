package generation

import "encoding/json"

// Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema is the subset of JSON Schema used to constrain structured LLM
// output. It marshals to standard JSON Schema for guided-JSON transports;
// the Gemini transport converts it to its own schema type.
type Schema struct {
	Type        string
	Description string
	Enum        []string
	Nullable    bool
	Minimum     *float64
	Maximum     *float64
	Properties  map[string]*Schema
	// Required lists the required properties in the order they should be
	// generated.
	Required []string
	Items    *Schema
}

// MarshalJSON renders s as a JSON Schema document. Nullable types become a
// ["type", "null"] union.
func (s *Schema) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	if s.Nullable {
		doc["type"] = []string{s.Type, "null"}
	} else {
		doc["type"] = s.Type
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		doc["enum"] = s.Enum
	}
	if s.Minimum != nil {
		doc["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		doc["maximum"] = *s.Maximum
	}
	if s.Type == TypeObject {
		props := s.Properties
		if props == nil {
			props = map[string]*Schema{}
		}
		doc["properties"] = props
		doc["additionalProperties"] = false
		if len(s.Required) > 0 {
			doc["required"] = s.Required
		}
	}
	if s.Items != nil {
		doc["items"] = s.Items
	}
	return json.Marshal(doc)
}

// ObjectSchema builds an object schema. Every property listed in required is
// mandatory; properties are generated in that order.
func ObjectSchema(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// ArraySchema builds an array of items.
func ArraySchema(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// StringSchema builds a plain string schema.
func StringSchema(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// EnumSchema builds a string schema restricted to values.
func EnumSchema[T ~string](description string, values []T) *Schema {
	enum := make([]string, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return &Schema{Type: TypeString, Description: description, Enum: enum}
}

// IntegerSchema builds an integer schema bounded by [min, max].
func IntegerSchema(description string, minimum, maximum float64) *Schema {
	return &Schema{Type: TypeInteger, Description: description, Minimum: &minimum, Maximum: &maximum}
}

// BooleanSchema builds a boolean schema.
func BooleanSchema(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// OrNull returns a copy of s that also accepts null.
func (s *Schema) OrNull() *Schema {
	c := *s
	c.Nullable = true
	return &c
}
