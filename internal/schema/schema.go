// Package schema holds the single definition of every structured-output
// contract sent to the generator. A Schema renders to JSON Schema for
// OpenAI-compatible endpoints, to CUE for validating responses, and is
// walked by package llm to build Gemini response schemas.
//
// Objects are always closed: unknown keys fail validation.
package schema

// Kind is the JSON type of a schema node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	}
	return "unknown"
}

// Field is a named property of an object.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// Schema is a node of a structured-output contract.
type Schema struct {
	Kind        Kind
	Description string

	Fields   []Field // KindObject, in declaration order
	Items    *Schema // KindArray
	MinItems int     // KindArray

	Enum      []string // KindString
	MinLength int      // KindString, in runes

	Minimum *float64 // KindNumber, KindInteger
	Const   *int64   // KindInteger
}

// Object builds a closed object.
func Object(fields ...Field) *Schema { return &Schema{Kind: KindObject, Fields: fields} }

// Array builds an array of items.
func Array(items *Schema) *Schema { return &Schema{Kind: KindArray, Items: items} }

// String builds a string node.
func String() *Schema { return &Schema{Kind: KindString} }

// Number builds a floating-point node.
func Number() *Schema { return &Schema{Kind: KindNumber} }

// Integer builds an integer node.
func Integer() *Schema { return &Schema{Kind: KindInteger} }

// Prop is a required field.
func Prop(name string, s *Schema) Field { return Field{Name: name, Schema: s} }

// Opt is an optional field.
func Opt(name string, s *Schema) Field { return Field{Name: name, Schema: s, Optional: true} }

// Describe sets the description shown to the generator.
func (s *Schema) Describe(d string) *Schema { s.Description = d; return s }

// AtLeast sets an inclusive lower bound.
func (s *Schema) AtLeast(min float64) *Schema { s.Minimum = &min; return s }

// OneOf restricts a string to the given values.
func (s *Schema) OneOf(values ...string) *Schema { s.Enum = values; return s }

// NonEmpty requires at least one array item.
func (s *Schema) NonEmpty() *Schema { s.MinItems = 1; return s }

// MinRunes sets the minimum string length in runes.
func (s *Schema) MinRunes(n int) *Schema { s.MinLength = n; return s }

// Equal pins an integer to exactly v.
func (s *Schema) Equal(v int64) *Schema { s.Const = &v; return s }
