// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

// Document is the BSON Document variant: an insertion-ordered mapping from
// string keys to Values, with keys unique within the document (spec.md
// §3.1 tag 0x03). It is one of the two mutable variants (the other is
// Array); everything else in the value model is value-immutable.
//
// The teacher's Map (bson.go) is an unordered map[string]interface{},
// chosen for simplicity over the teacher's order-preserving Slice. BSON's
// wire format and EJSON's first-key dispatch rule both depend on order, so
// Document keeps Slice's ordering guarantee as the one and only document
// representation instead of offering two.
type Document struct {
	keys []string
	vals map[string]Value
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{vals: make(map[string]Value)}
}

// Append inserts or updates key, returning the Document for chaining, the
// same fluent shape the teacher's Map/Slice types get from their Encode
// methods. Re-appending an existing key updates its value in place without
// moving its position — this is also how decode handles duplicate keys
// (spec.md §3.1: "duplicate keys on decode keep last").
func (d *Document) Append(key string, v Value) *Document {
	if _, exists := d.vals[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return d
}

// Delete removes key, if present.
func (d *Document) Delete(key string) {
	if _, exists := d.vals[key]; !exists {
		return
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value at key and whether it was present.
func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// GetFirstKey returns the first key in insertion order, failing with
// InvalidOperationError if the document is empty.
func (d *Document) GetFirstKey() (string, error) {
	if len(d.keys) == 0 {
		return "", invalidOp("", "document has no keys")
	}
	return d.keys[0], nil
}

// Len returns the number of entries.
func (d *Document) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order. The returned slice is a copy.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Clone deep-copies d: nested Documents and Arrays are recursively cloned,
// every other variant's Value is copied by value (spec.md §3.1 Lifecycle).
func (d *Document) Clone() *Document {
	out := NewDocument()
	for _, k := range d.keys {
		out.Append(k, d.vals[k].Clone())
	}
	return out
}

// Equal compares the ordered entry sequence: same keys, in the same order,
// with equal values (spec.md §3.1).
func (d *Document) Equal(o *Document) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	if len(d.keys) != len(o.keys) {
		return false
	}
	for i, k := range d.keys {
		if o.keys[i] != k {
			return false
		}
		if !Equal(d.vals[k], o.vals[o.keys[i]]) {
			return false
		}
	}
	return true
}

// --- typed get/get-with-default accessors and per-key type predicates
// (spec.md §4.D). Each pair follows the same shape as Value's As*/Is*
// methods, just keyed by name instead of called on an already-narrowed
// Value.

func (d *Document) GetDouble(key string) (float64, error) {
	v, ok := d.vals[key]
	if !ok {
		return 0, invalidOp(key, "key not found")
	}
	return v.AsDouble()
}

func (d *Document) GetDoubleDefault(key string, def float64) float64 {
	if v, ok := d.vals[key]; ok {
		if f, err := v.AsDouble(); err == nil {
			return f
		}
	}
	return def
}

func (d *Document) GetString(key string) (string, error) {
	v, ok := d.vals[key]
	if !ok {
		return "", invalidOp(key, "key not found")
	}
	return v.AsString()
}

func (d *Document) GetStringDefault(key string, def string) string {
	if v, ok := d.vals[key]; ok {
		if s, err := v.AsString(); err == nil {
			return s
		}
	}
	return def
}

func (d *Document) GetDocument(key string) (*Document, error) {
	v, ok := d.vals[key]
	if !ok {
		return nil, invalidOp(key, "key not found")
	}
	return v.AsDocument()
}

func (d *Document) GetArray(key string) (*Array, error) {
	v, ok := d.vals[key]
	if !ok {
		return nil, invalidOp(key, "key not found")
	}
	return v.AsArray()
}

func (d *Document) GetBoolean(key string) (bool, error) {
	v, ok := d.vals[key]
	if !ok {
		return false, invalidOp(key, "key not found")
	}
	return v.AsBoolean()
}

func (d *Document) GetBooleanDefault(key string, def bool) bool {
	if v, ok := d.vals[key]; ok {
		if b, err := v.AsBoolean(); err == nil {
			return b
		}
	}
	return def
}

func (d *Document) GetInt32(key string) (int32, error) {
	v, ok := d.vals[key]
	if !ok {
		return 0, invalidOp(key, "key not found")
	}
	return v.AsInt32()
}

func (d *Document) GetInt32Default(key string, def int32) int32 {
	if v, ok := d.vals[key]; ok {
		if i, err := v.AsInt32(); err == nil {
			return i
		}
	}
	return def
}

func (d *Document) GetInt64(key string) (int64, error) {
	v, ok := d.vals[key]
	if !ok {
		return 0, invalidOp(key, "key not found")
	}
	return v.AsInt64()
}

func (d *Document) GetInt64Default(key string, def int64) int64 {
	if v, ok := d.vals[key]; ok {
		if i, err := v.AsInt64(); err == nil {
			return i
		}
	}
	return def
}

func (d *Document) GetObjectId(key string) (ObjectId, error) {
	v, ok := d.vals[key]
	if !ok {
		return ObjectId{}, invalidOp(key, "key not found")
	}
	return v.AsObjectId()
}

func (d *Document) IsDouble(key string) bool    { v, ok := d.vals[key]; return ok && v.IsDouble() }
func (d *Document) IsString(key string) bool    { v, ok := d.vals[key]; return ok && v.IsString() }
func (d *Document) IsDocument(key string) bool  { v, ok := d.vals[key]; return ok && v.IsDocument() }
func (d *Document) IsArray(key string) bool     { v, ok := d.vals[key]; return ok && v.IsArray() }
func (d *Document) IsBoolean(key string) bool   { v, ok := d.vals[key]; return ok && v.IsBoolean() }
func (d *Document) IsNull(key string) bool      { v, ok := d.vals[key]; return ok && v.IsNull() }
func (d *Document) IsInt32(key string) bool     { v, ok := d.vals[key]; return ok && v.IsInt32() }
func (d *Document) IsInt64(key string) bool     { v, ok := d.vals[key]; return ok && v.IsInt64() }
func (d *Document) IsObjectId(key string) bool  { v, ok := d.vals[key]; return ok && v.IsObjectId() }
