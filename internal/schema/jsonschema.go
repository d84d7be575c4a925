package schema

// JSONSchema renders the schema as a JSON Schema document (draft 2020-12
// subset accepted by OpenAI-compatible response_format).
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": s.Kind.String()}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Kind {
	case KindObject:
		props := make(map[string]any, len(s.Fields))
		required := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			props[f.Name] = f.Schema.JSONSchema()
			if !f.Optional {
				required = append(required, f.Name)
			}
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	case KindArray:
		out["items"] = s.Items.JSONSchema()
		if s.MinItems > 0 {
			out["minItems"] = s.MinItems
		}
	case KindString:
		if len(s.Enum) > 0 {
			out["enum"] = s.Enum
		}
		if s.MinLength > 0 {
			out["minLength"] = s.MinLength
		}
	case KindNumber, KindInteger:
		if s.Minimum != nil {
			out["minimum"] = *s.Minimum
		}
		if s.Const != nil {
			out["enum"] = []int64{*s.Const}
		}
	}
	return out
}
