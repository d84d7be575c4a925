// Package repo
//
// Typed field access for raw Airtable records.
package repo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tbourn/go-recipe-backend/internal/airtable"
)

// ErrMalformedRecord is returned when a present field has the wrong JSON type.
// Absent fields are not an error; they decode to zero values.
var ErrMalformedRecord = errors.New("malformed record")

// decoder reads typed fields out of one raw record and remembers the first
// type error it hits, so row constructors can read every field and check once.
type decoder struct {
	table string
	rec   airtable.Record
	err   error
}

func newDecoder(table string, rec airtable.Record) *decoder {
	return &decoder{table: table, rec: rec}
}

func (d *decoder) fail(field, want string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s/%s field %q: want %s", ErrMalformedRecord, d.table, d.rec.ID, field, want)
	}
}

// raw returns the field bytes or nil when the field is absent or null.
func (d *decoder) raw(field string) json.RawMessage {
	v, ok := d.rec.Fields[field]
	if !ok {
		return nil
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	return v
}

func (d *decoder) str(field string) string {
	v := d.raw(field)
	if v == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.fail(field, "string")
		return ""
	}
	return s
}

func (d *decoder) num(field string) float64 {
	v := d.raw(field)
	if v == nil {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		d.fail(field, "number")
		return 0
	}
	return f
}

func (d *decoder) int(field string) int {
	f := d.num(field)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

func (d *decoder) ids(field string) []string {
	v := d.raw(field)
	if v == nil {
		return nil
	}
	var out []string
	if err := json.Unmarshal(v, &out); err != nil {
		d.fail(field, "array of record ids")
		return nil
	}
	return out
}
