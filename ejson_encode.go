package bson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalEJSON renders v in canonical MongoDB Extended JSON (spec.md
// §6.3): every non-JSON-native BSON type wrapped in a single "$name"-keyed
// envelope object, Documents and Arrays passed through as plain JSON
// structures. It is the EJSON counterpart to Marshal (codec.go), sharing
// encoding/json only for string-literal escaping — structure and envelope
// shape are written by hand so field order and the envelope wrapping stay
// exactly what spec.md §6.3/§4.G require, which json.Marshal's map-based
// encoding can't guarantee.
func MarshalEJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeEJSONValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalEJSONDocument is MarshalEJSON for the common case of a top-level
// document.
func MarshalEJSONDocument(d *Document) ([]byte, error) {
	return MarshalEJSON(DocumentValue(d))
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func encodeEJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.typ {
	case TypeDouble:
		f, _ := v.AsDouble()
		return encodeEnvelope1(buf, "$numberDouble", jsonString(formatEJSONDouble(f)))
	case TypeString:
		s, _ := v.AsString()
		buf.WriteString(jsonString(s))
		return nil
	case TypeDocument:
		d, _ := v.AsDocument()
		return encodeEJSONDocument(buf, d)
	case TypeArray:
		a, _ := v.AsArray()
		return encodeEJSONArray(buf, a)
	case TypeBinary:
		b, _ := v.AsBinary()
		buf.WriteString(`{"$binary":{"base64":`)
		buf.WriteString(jsonString(base64.StdEncoding.EncodeToString(b.Data)))
		buf.WriteString(`,"subType":`)
		buf.WriteString(jsonString(fmt.Sprintf("%02x", byte(b.Subtype))))
		buf.WriteString("}}")
		return nil
	case TypeUndefined:
		buf.WriteString(`{"$undefined":true}`)
		return nil
	case TypeObjectId:
		id, _ := v.AsObjectId()
		return encodeEnvelope1(buf, "$oid", jsonString(id.Hex()))
	case TypeBoolean:
		b, _ := v.AsBoolean()
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case TypeDateTime:
		ms, _ := v.AsDateTime()
		buf.WriteString(`{"$date":{"$numberLong":`)
		buf.WriteString(jsonString(strconv.FormatInt(ms, 10)))
		buf.WriteString("}}")
		return nil
	case TypeNull:
		buf.WriteString("null")
		return nil
	case TypeRegularExpression:
		r, _ := v.AsRegularExpression()
		buf.WriteString(`{"$regularExpression":{"pattern":`)
		buf.WriteString(jsonString(r.Pattern))
		buf.WriteString(`,"options":`)
		buf.WriteString(jsonString(r.Options))
		buf.WriteString("}}")
		return nil
	case TypeDbPointer:
		p, _ := v.AsDbPointer()
		buf.WriteString(`{"$dbPointer":{"$ref":`)
		buf.WriteString(jsonString(p.Namespace))
		buf.WriteString(`,"$id":{"$oid":`)
		buf.WriteString(jsonString(p.Id.Hex()))
		buf.WriteString("}}}")
		return nil
	case TypeJavaScript:
		s, _ := v.AsJavaScript()
		return encodeEnvelope1(buf, "$code", jsonString(s))
	case TypeSymbol:
		s, _ := v.AsSymbol()
		return encodeEnvelope1(buf, "$symbol", jsonString(s))
	case TypeJavaScriptWithScope:
		j, _ := v.AsJavaScriptWithScope()
		buf.WriteString(`{"$code":`)
		buf.WriteString(jsonString(j.Code))
		buf.WriteString(`,"$scope":`)
		if err := encodeEJSONDocument(buf, j.Scope); err != nil {
			return err
		}
		buf.WriteString("}")
		return nil
	case TypeInt32:
		i, _ := v.AsInt32()
		return encodeEnvelope1(buf, "$numberInt", jsonString(strconv.FormatInt(int64(i), 10)))
	case TypeTimestamp:
		t, _ := v.AsTimestamp()
		buf.WriteString(fmt.Sprintf(`{"$timestamp":{"t":%d,"i":%d}}`, t.Seconds, t.Increment))
		return nil
	case TypeInt64:
		i, _ := v.AsInt64()
		return encodeEnvelope1(buf, "$numberLong", jsonString(strconv.FormatInt(i, 10)))
	case TypeDecimal128:
		d, _ := v.AsDecimal128()
		return encodeEnvelope1(buf, "$numberDecimal", jsonString(d.String()))
	case TypeMinKey:
		buf.WriteString(`{"$minKey":1}`)
		return nil
	case TypeMaxKey:
		buf.WriteString(`{"$maxKey":1}`)
		return nil
	default:
		return invalidOp("", "cannot encode EJSON for unknown type %v", v.typ)
	}
}

func encodeEnvelope1(buf *bytes.Buffer, key, jsonValue string) error {
	buf.WriteByte('{')
	buf.WriteString(jsonString(key))
	buf.WriteByte(':')
	buf.WriteString(jsonValue)
	buf.WriteByte('}')
	return nil
}

func encodeEJSONDocument(buf *bytes.Buffer, d *Document) error {
	buf.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(jsonString(k))
		buf.WriteByte(':')
		v, _ := d.Get(k)
		if err := encodeEJSONValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeEJSONArray(buf *bytes.Buffer, a *Array) error {
	buf.WriteByte('[')
	for i, v := range a.Values() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeEJSONValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// formatEJSONDouble follows canonical EJSON's rule that a Double always
// looks like a double on the wire: NaN/Infinity render as those bare
// words, and an integral value still carries a decimal point.
func formatEJSONDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == 'E' {
			return s
		}
	}
	return s + ".0"
}
