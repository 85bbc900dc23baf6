package bson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// UnmarshalEJSON parses one MongoDB Extended JSON text into a Value. It
// walks the input with encoding/json's Decoder.Token() streaming API rather
// than Decoder.Decode(interface{}) so that object key order survives into
// the first-key envelope-dispatch heuristic spec.md §6.3 requires —
// json.Unmarshal into map[string]interface{} discards order, which would
// make dispatch ambiguous for objects that happen to have more than one
// key. $code is recognized only alone or together with $scope. Legacy
// two-key forms ($binary/$type) are accepted for input leniency; any
// other object whose first key names an envelope decodes as that
// envelope, and its remaining keys are ignored.
func UnmarshalEJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeEJSONValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, serializationErr("", "trailing data after EJSON value")
	}
	return v, nil
}

// UnmarshalEJSONDocument is UnmarshalEJSON for the common case of a
// top-level document.
func UnmarshalEJSONDocument(data []byte) (*Document, error) {
	v, err := UnmarshalEJSON(data)
	if err != nil {
		return nil, err
	}
	return v.AsDocument()
}

func decodeEJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, wrapSerializationErr("", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeEJSONObject(dec)
		case '[':
			return decodeEJSONArray(dec)
		}
		return Value{}, serializationErr("", "unexpected delimiter %q", t)
	case json.Number:
		return decodeEJSONBareNumber(t)
	case string:
		return NewString(t), nil
	case bool:
		return NewBoolean(t), nil
	case nil:
		return NewNull(), nil
	default:
		return Value{}, serializationErr("", "unexpected JSON token %v", tok)
	}
}

// decodeEJSONBareNumber handles a JSON number that appears without a
// $numberX envelope, wherever it occurs (including $date's millisecond
// form and a $timestamp's t/i fields). Integral text decodes as Int64
// (or Int32 if it fits), anything else as Double.
func decodeEJSONBareNumber(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		if int64(int32(i)) == i {
			return NewInt32(int32(i)), nil
		}
		return NewInt64(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, serializationErr("", "malformed JSON number %q", string(n))
	}
	return NewDouble(f), nil
}

func decodeEJSONArray(dec *json.Decoder) (Value, error) {
	arr := NewArray()
	for dec.More() {
		v, err := decodeEJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		arr.Append(v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, wrapSerializationErr("", err)
	}
	return ArrayValue(arr), nil
}

func decodeEJSONObject(dec *json.Decoder) (Value, error) {
	var keys []string
	var vals []Value
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, wrapSerializationErr("", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, serializationErr("", "object key is not a string")
		}
		v, err := decodeEJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, wrapSerializationErr("", err)
	}

	if i := indexOfKey(keys, "$code"); i >= 0 && (len(keys) == 1 || (len(keys) == 2 && indexOfKey(keys, "$scope") >= 0)) {
		return decodeCodeEnvelope(keys, vals)
	}
	if len(keys) == 2 && indexOfKey(keys, "$binary") >= 0 && indexOfKey(keys, "$type") >= 0 {
		return decodeLegacyBinary(keys, vals)
	}
	if len(keys) > 0 && keys[0] != "$code" && len(keys[0]) > 0 && keys[0][0] == '$' {
		if v, ok, err := decodeSingleEnvelope(keys[0], vals[0]); ok || err != nil {
			return v, err
		}
	}

	doc := NewDocument()
	for i, k := range keys {
		doc.Append(k, vals[i])
	}
	return DocumentValue(doc), nil
}

func indexOfKey(keys []string, name string) int {
	for i, k := range keys {
		if k == name {
			return i
		}
	}
	return -1
}

func decodeCodeEnvelope(keys []string, vals []Value) (Value, error) {
	ci := indexOfKey(keys, "$code")
	code, err := vals[ci].AsString()
	if err != nil {
		return Value{}, serializationErr("", "$code must be a string")
	}
	si := indexOfKey(keys, "$scope")
	if si < 0 {
		return NewJavaScript(code), nil
	}
	scope, err := vals[si].AsDocument()
	if err != nil {
		return Value{}, serializationErr("", "$scope must be a document")
	}
	return NewJavaScriptWithScope(code, scope), nil
}

func decodeLegacyBinary(keys []string, vals []Value) (Value, error) {
	b64, err := vals[indexOfKey(keys, "$binary")].AsString()
	if err != nil {
		return Value{}, serializationErr("", "legacy $binary must be a string")
	}
	typHex, err := vals[indexOfKey(keys, "$type")].AsString()
	if err != nil {
		return Value{}, serializationErr("", "legacy $type must be a string")
	}
	return decodeBinaryEnvelope(b64, typHex)
}

// decodeSingleEnvelope interprets an object whose first key is name,
// returning ok=false when name isn't a recognized envelope (a plain
// document field that happens to start with "$").
func decodeSingleEnvelope(name string, val Value) (Value, bool, error) {
	switch name {
	case "$numberDouble":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$numberDouble must be a string")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, true, serializationErr("", "malformed $numberDouble %q", s)
		}
		return NewDouble(f), true, nil
	case "$numberInt":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$numberInt must be a string")
		}
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, true, serializationErr("", "malformed $numberInt %q", s)
		}
		return NewInt32(int32(i)), true, nil
	case "$numberLong":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$numberLong must be a string")
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, true, serializationErr("", "malformed $numberLong %q", s)
		}
		return NewInt64(i), true, nil
	case "$numberDecimal":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$numberDecimal must be a string")
		}
		d, err := ParseDecimal128(s)
		if err != nil {
			return Value{}, true, err
		}
		return NewDecimal128Value(d), true, nil
	case "$oid":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$oid must be a string")
		}
		id, err := ObjectIdFromHex(s)
		if err != nil {
			return Value{}, true, wrapSerializationErr("", err)
		}
		return NewObjectIdValue(id), true, nil
	case "$symbol":
		s, err := val.AsString()
		if err != nil {
			return Value{}, true, serializationErr("", "$symbol must be a string")
		}
		return NewSymbol(s), true, nil
	case "$undefined":
		return NewUndefined(), true, nil
	case "$minKey":
		return NewMinKey(), true, nil
	case "$maxKey":
		return NewMaxKey(), true, nil
	case "$date":
		return decodeDateEnvelope(val)
	case "$binary":
		d, err := val.AsDocument()
		if err != nil {
			return Value{}, true, serializationErr("", "$binary must be an object")
		}
		b64v, ok := d.Get("base64")
		if !ok {
			return Value{}, true, serializationErr("", "$binary missing base64 field")
		}
		typv, ok := d.Get("subType")
		if !ok {
			return Value{}, true, serializationErr("", "$binary missing subType field")
		}
		b64, _ := b64v.AsString()
		typHex, _ := typv.AsString()
		v, err := decodeBinaryEnvelope(b64, typHex)
		return v, true, err
	case "$regularExpression":
		d, err := val.AsDocument()
		if err != nil {
			return Value{}, true, serializationErr("", "$regularExpression must be an object")
		}
		pv, _ := d.Get("pattern")
		ov, _ := d.Get("options")
		pattern, _ := pv.AsString()
		options, _ := ov.AsString()
		return NewRegularExpression(pattern, options), true, nil
	case "$dbPointer":
		d, err := val.AsDocument()
		if err != nil {
			return Value{}, true, serializationErr("", "$dbPointer must be an object")
		}
		refv, ok := d.Get("$ref")
		if !ok {
			return Value{}, true, serializationErr("", "$dbPointer missing $ref field")
		}
		idv, ok := d.Get("$id")
		if !ok {
			return Value{}, true, serializationErr("", "$dbPointer missing $id field")
		}
		ref, _ := refv.AsString()
		id, err := idv.AsObjectId()
		if err != nil {
			return Value{}, true, serializationErr("", "$dbPointer $id must be an $oid")
		}
		return NewDbPointer(ref, id), true, nil
	case "$timestamp":
		d, err := val.AsDocument()
		if err != nil {
			return Value{}, true, serializationErr("", "$timestamp must be an object")
		}
		tv, ok := d.Get("t")
		if !ok {
			return Value{}, true, serializationErr("", "$timestamp missing t field")
		}
		iv, ok := d.Get("i")
		if !ok {
			return Value{}, true, serializationErr("", "$timestamp missing i field")
		}
		tn, err := tv.AsNumber()
		if err != nil {
			return Value{}, true, serializationErr("", "$timestamp.t must be numeric")
		}
		in, err := iv.AsNumber()
		if err != nil {
			return Value{}, true, serializationErr("", "$timestamp.i must be numeric")
		}
		return NewTimestampValue(uint32(tn.LongValue()), uint32(in.LongValue())), true, nil
	default:
		return Value{}, false, nil
	}
}

func decodeDateEnvelope(val Value) (Value, bool, error) {
	switch {
	case val.IsDocument():
		d, _ := val.AsDocument()
		lv, ok := d.Get("$numberLong")
		if !ok {
			return Value{}, true, serializationErr("", "$date object must contain $numberLong")
		}
		ms, err := lv.AsInt64()
		if err != nil {
			return Value{}, true, serializationErr("", "$date $numberLong must be an Int64")
		}
		return NewDateTime(ms), true, nil
	case val.IsString():
		s, _ := val.AsString()
		t, err := parseISO8601(s)
		if err != nil {
			return Value{}, true, serializationErr("", "malformed $date string %q", s)
		}
		return NewDateTime(t), true, nil
	case val.IsInt64(), val.IsInt32():
		n, _ := val.AsNumber()
		return NewDateTime(n.LongValue()), true, nil
	default:
		return Value{}, true, serializationErr("", "$date must be an object, string, or number")
	}
}

func decodeBinaryEnvelope(b64, typHex string) (Value, error) {
	data, err := decodeBase64(b64)
	if err != nil {
		return Value{}, serializationErr("", "malformed $binary base64 %q", b64)
	}
	sub, err := strconv.ParseUint(typHex, 16, 8)
	if err != nil {
		return Value{}, serializationErr("", "malformed $binary subType %q", typHex)
	}
	return NewBinary(BinarySubtype(sub), data), nil
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// parseISO8601 accepts the relaxed $date string form, returning milliseconds
// since the Unix epoch.
func parseISO8601(s string) (int64, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixNano() / int64(time.Millisecond), nil
		}
	}
	_, err := time.Parse(time.RFC3339, s)
	return 0, err
}
