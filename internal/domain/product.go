package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	ErrMalformed = errors.New("malformed JSON")
	ErrNotArray  = errors.New("JSON root is not an array")
	ErrNotObject = errors.New("JSON value is not an object")
)

// Product is a catalog record kept as an ordered JSON object.
//
// Every field it was given survives, known or not, in its original order,
// so encoding a Product reproduces the document it was decoded from.
// Typed accessors read the well-known fields leniently.
type Product struct {
	keys   []string
	fields map[string]json.RawMessage
}

// NewProduct returns an empty record.
func NewProduct() Product {
	return Product{fields: make(map[string]json.RawMessage)}
}

// ParseProduct decodes a single JSON object.
func ParseProduct(raw []byte) (Product, error) {
	if !gjson.ValidBytes(raw) {
		return Product{}, ErrMalformed
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return Product{}, ErrNotObject
	}
	return fromResult(res), nil
}

// ParseProducts decodes a JSON array of objects, preserving element order.
func ParseProducts(raw []byte) ([]Product, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformed
	}
	res := gjson.ParseBytes(raw)
	if !res.IsArray() {
		return nil, ErrNotArray
	}

	products := make([]Product, 0, len(res.Array()))
	var err error
	res.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("element %d: %w", len(products), ErrNotObject)
			return false
		}
		products = append(products, fromResult(value))
		return true
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func fromResult(res gjson.Result) Product {
	p := NewProduct()
	res.ForEach(func(key, value gjson.Result) bool {
		// Raw comes from a validated document, compaction cannot fail.
		_ = p.SetRaw(key.String(), json.RawMessage(value.Raw))
		return true
	})
	return p
}

// SetRaw stores an already-encoded JSON value. A new key is appended,
// an existing key keeps its position.
func (p *Product) SetRaw(key string, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("field %q: %w", key, ErrMalformed)
	}
	if p.fields == nil {
		p.fields = make(map[string]json.RawMessage)
	}
	if _, ok := p.fields[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.fields[key] = json.RawMessage(buf.Bytes())
	return nil
}

// Set encodes v and stores it under key.
func (p *Product) Set(key string, v any) error {
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return p.SetRaw(key, raw)
}

// Delete removes key, if present.
func (p *Product) Delete(key string) {
	if _, ok := p.fields[key]; !ok {
		return
	}
	delete(p.fields, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p Product) Has(key string) bool {
	_, ok := p.fields[key]
	return ok
}

func (p Product) Len() int { return len(p.keys) }

// Keys returns the field names in stored order.
func (p Product) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Raw returns the encoded value stored under key.
func (p Product) Raw(key string) (json.RawMessage, bool) {
	raw, ok := p.fields[key]
	return raw, ok
}

// Clone returns an independent copy. Stored values are never mutated in
// place, so they are shared.
func (p Product) Clone() Product {
	c := Product{
		keys:   append([]string(nil), p.keys...),
		fields: make(map[string]json.RawMessage, len(p.fields)),
	}
	for k, v := range p.fields {
		c.fields[k] = v
	}
	return c
}

// Merge returns a copy of p with every field of patch applied on top:
// existing keys keep their position, new keys are appended.
func (p Product) Merge(patch Product) Product {
	merged := p.Clone()
	for _, k := range patch.keys {
		if _, ok := merged.fields[k]; !ok {
			merged.keys = append(merged.keys, k)
		}
		merged.fields[k] = patch.fields[k]
	}
	return merged
}

// WithID returns a copy whose id field comes first and holds id, followed
// by every other field of p.
func (p Product) WithID(id int) Product {
	out := NewProduct()
	_ = out.Set("id", id)
	for _, k := range p.keys {
		if k == "id" {
			continue
		}
		out.keys = append(out.keys, k)
		out.fields[k] = p.fields[k]
	}
	return out
}

func (p Product) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(p.fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	parsed, err := ParseProduct(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ─────────────────────────────
// Typed accessors
// ─────────────────────────────

func (p Product) get(key string) gjson.Result {
	raw, ok := p.fields[key]
	if !ok {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

func (p Product) text(key string) string {
	r := p.get(key)
	if r.IsObject() || r.IsArray() {
		return ""
	}
	return cast.ToString(r.Value())
}

// ID returns the integer id, 0 when absent or not numeric.
func (p Product) ID() int {
	r := p.get("id")
	switch r.Type {
	case gjson.Number:
		return cast.ToInt(r.Value())
	case gjson.String:
		id, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

func (p Product) Name() string        { return p.text("name") }
func (p Product) Description() string { return p.text("description") }
func (p Product) Image() string       { return p.text("image") }

// Link is the legacy single purchase URL.
func (p Product) Link() string {
	r := p.get("link")
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// Price coerces the price field to a non-negative number. Absent, null,
// negative or unparsable values read as 0.
func (p Product) Price() float64 {
	r := p.get("price")
	if !r.Exists() || r.Type == gjson.Null {
		return 0
	}
	v, err := cast.ToFloat64E(r.Value())
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// HasRenderableImage reports whether the image should be displayed: only
// values starting with "http" are.
func (p Product) HasRenderableImage() bool {
	return strings.HasPrefix(p.Image(), "http")
}

// CategoryState tells apart a missing category field from an empty one.
type CategoryState int

const (
	CategoryAbsent CategoryState = iota
	CategoryUnset
	CategorySet
)

// Category returns the category key and whether the field is absent,
// present but null/empty, or set.
func (p Product) Category() (string, CategoryState) {
	r := p.get("category")
	if !r.Exists() {
		return "", CategoryAbsent
	}
	c := p.text("category")
	if c == "" {
		return "", CategoryUnset
	}
	return c, CategorySet
}
