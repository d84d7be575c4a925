// Package quantity normalizes the loosely-typed Quantity field of ingredient
// join rows. Stored values are either JSON numbers or free text such as
// "250 g" or "2,5 tasses".
package quantity

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Value is a normalized quantity. The zero value means "unknown".
type Value struct {
	Quantity float64
	Unit     string
}

// leading numeric token with '.' or ',' as decimal separator, then the rest.
var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?|[.,]\d+)\s*(.*?)\s*$`)

// Parse normalizes v. Numbers map to {v, ""}; strings are split into a
// leading number and a trailing unit. Anything unparseable yields {0, ""}.
// Parse never fails.
func Parse(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return Value{Quantity: float64(x)}
	case int64:
		return Value{Quantity: float64(x)}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}
		}
		return fromFloat(f)
	case string:
		return parseString(x)
	default:
		return Value{}
	}
}

// FromJSON decodes a raw field value and normalizes it with Parse.
func FromJSON(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}
	}
	return Parse(v)
}

func parseString(s string) Value {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return Value{}
	}
	num := strings.Replace(m[1], ",", ".", 1)
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Value{}
	}
	return Value{Quantity: f, Unit: m[2]}
}

func fromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Quantity: f}
}
