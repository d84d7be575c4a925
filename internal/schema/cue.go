package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

const rootField = "out"

// CUE renders the schema as a CUE source file whose field "out" is the
// contract. Builtin packages are imported only when used.
func (s *Schema) CUE() string {
	imports := map[string]bool{}
	var body strings.Builder
	s.writeCUE(&body, 0, imports)

	var b strings.Builder
	if len(imports) > 0 {
		names := make([]string, 0, len(imports))
		for n := range imports {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, "import %q\n", n)
		}
		b.WriteString("\n")
	}
	b.WriteString(rootField + ": ")
	b.WriteString(body.String())
	b.WriteString("\n")
	return b.String()
}

func (s *Schema) writeCUE(b *strings.Builder, depth int, imports map[string]bool) {
	switch s.Kind {
	case KindObject:
		b.WriteString("close({\n")
		for _, f := range s.Fields {
			b.WriteString(strings.Repeat("\t", depth+1))
			b.WriteString(quote(f.Name))
			if f.Optional {
				b.WriteString("?")
			}
			b.WriteString(": ")
			f.Schema.writeCUE(b, depth+1, imports)
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("\t", depth))
		b.WriteString("})")
	case KindArray:
		if s.MinItems > 0 {
			imports["list"] = true
			fmt.Fprintf(b, "list.MinItems(%d) & ", s.MinItems)
		}
		b.WriteString("[...")
		s.Items.writeCUE(b, depth, imports)
		b.WriteString("]")
	case KindString:
		switch {
		case len(s.Enum) > 0:
			for i, v := range s.Enum {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(quote(v))
			}
		case s.MinLength > 0:
			imports["strings"] = true
			fmt.Fprintf(b, "string & strings.MinRunes(%d)", s.MinLength)
		default:
			b.WriteString("string")
		}
	case KindNumber:
		b.WriteString("number")
		s.writeMinimum(b)
	case KindInteger:
		if s.Const != nil {
			b.WriteString(strconv.FormatInt(*s.Const, 10))
			return
		}
		b.WriteString("int")
		s.writeMinimum(b)
	}
}

func (s *Schema) writeMinimum(b *strings.Builder) {
	if s.Minimum != nil {
		b.WriteString(" & >=")
		b.WriteString(strconv.FormatFloat(*s.Minimum, 'f', -1, 64))
	}
}

func quote(s string) string {
	q, _ := json.Marshal(s)
	return string(q)
}

// Validate checks that payload is JSON satisfying the schema. All values
// must be concrete; the first violations are reported in the error.
func (s *Schema) Validate(payload []byte) error {
	ctx := cuecontext.New()
	contract := ctx.CompileString(s.CUE(), cue.Filename("schema.cue"))
	if err := contract.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	expr, err := cuejson.Extract("response.json", payload)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	data := ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	unified := contract.LookupPath(cue.ParsePath(rootField)).Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: cueerrors.Details(err, nil)}
	}
	return nil
}

// Conform validates payload like Validate and returns the payload the caller
// should decode. JSON has a single number type, so generators sometimes send
// integer fields as 2.0 or 2e0; such values are rewritten to their integer
// form before validation. Fractional values in integer fields still fail.
func (s *Schema) Conform(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		if fixed, changed := s.integral(v); changed {
			if b, err := json.Marshal(fixed); err == nil {
				payload = b
			}
		}
	}
	if err := s.Validate(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// largest magnitude a float64 holds without losing integer precision
const maxExactInt = 1 << 53

// integral walks v alongside the schema and rewrites integral numbers found
// at integer nodes. Nodes that do not match the schema are left for
// Validate to report.
func (s *Schema) integral(v any) (any, bool) {
	switch s.Kind {
	case KindInteger:
		n, ok := v.(json.Number)
		if !ok || !strings.ContainsAny(string(n), ".eE") {
			return v, false
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
			return v, false
		}
		return json.Number(strconv.FormatInt(int64(f), 10)), true
	case KindArray:
		items, ok := v.([]any)
		if !ok || s.Items == nil {
			return v, false
		}
		changed := false
		for i, item := range items {
			var c bool
			if items[i], c = s.Items.integral(item); c {
				changed = true
			}
		}
		return items, changed
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return v, false
		}
		changed := false
		for _, f := range s.Fields {
			val, present := obj[f.Name]
			if !present {
				continue
			}
			var c bool
			if obj[f.Name], c = f.Schema.integral(val); c {
				changed = true
			}
		}
		return obj, changed
	}
	return v, false
}

// ValidationError describes a schema violation.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "schema violation: " + strings.TrimSpace(e.Details)
}
