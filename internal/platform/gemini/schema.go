package gemini

import (
	"github.com/phrazzld/lingo-api/internal/generation"
	"google.golang.org/genai"
)

var schemaTypes = map[string]genai.Type{
	generation.TypeObject:  genai.TypeObject,
	generation.TypeArray:   genai.TypeArray,
	generation.TypeString:  genai.TypeString,
	generation.TypeInteger: genai.TypeInteger,
	generation.TypeNumber:  genai.TypeNumber,
	generation.TypeBoolean: genai.TypeBoolean,
}

// toGenaiSchema converts a generation schema to the Gemini representation.
func toGenaiSchema(s *generation.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}
	if s.Nullable {
		nullable := true
		out.Nullable = &nullable
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
		out.Enum = append([]string(nil), s.Enum...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
		out.Required = append([]string(nil), s.Required...)
		out.PropertyOrdering = append([]string(nil), s.Required...)
	}
	out.Items = toGenaiSchema(s.Items)
	return out
}
