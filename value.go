// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import "math"

// Value is the closed sum of BSON variants (spec.md §3.1): a one-byte type
// tag plus the variant's payload. Where the teacher represented each BSON
// kind as its own Go type dispatched through interface{} (see type.go's
// Float/String/Binary/... and encode.go's big type switch), Value
// generalizes that into a single tagged-union struct so the ~20 variants
// share one uniform is_X/as_X surface (spec.md §4.D) instead of twenty
// independent named types. typ is authoritative; raw only carries the
// payload's Go representation for the matching variant.
type Value struct {
	typ BsonType
	raw interface{}
}

// BsonType returns the variant tag.
func (v Value) BsonType() BsonType { return v.typ }

// undefinedMarker, nullMarker, minKeyMarker, maxKeyMarker are the payloads
// of the four singleton variants; they carry no data but still need a
// distinct raw value so a zero Value (typ==0) isn't mistaken for one of
// them.
type (
	undefinedMarker struct{}
	nullMarker      struct{}
	minKeyMarker    struct{}
	maxKeyMarker    struct{}
)

// Constructors, one per variant (spec.md §3.1 table).

func NewDouble(v float64) Value  { return Value{typ: TypeDouble, raw: v} }
func NewString(v string) Value   { return Value{typ: TypeString, raw: v} }
func DocumentValue(d *Document) Value {
	if d == nil {
		d = NewDocument()
	}
	return Value{typ: TypeDocument, raw: d}
}
func ArrayValue(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{typ: TypeArray, raw: a}
}
func NewBinary(subtype BinarySubtype, data []byte) Value {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Value{typ: TypeBinary, raw: Binary{Subtype: subtype, Data: cp}}
}
func NewUndefined() Value { return Value{typ: TypeUndefined, raw: undefinedMarker{}} }
func NewObjectIdValue(id ObjectId) Value { return Value{typ: TypeObjectId, raw: id} }
func NewBoolean(v bool) Value            { return Value{typ: TypeBoolean, raw: v} }
func NewDateTime(millisSinceEpoch int64) Value {
	return Value{typ: TypeDateTime, raw: millisSinceEpoch}
}
func NewNull() Value { return Value{typ: TypeNull, raw: nullMarker{}} }
func NewRegularExpression(pattern, options string) Value {
	return Value{typ: TypeRegularExpression, raw: newRegex(pattern, options)}
}
func NewDbPointer(namespace string, id ObjectId) Value {
	return Value{typ: TypeDbPointer, raw: DbPointer{Namespace: namespace, Id: id}}
}
func NewJavaScript(code string) Value { return Value{typ: TypeJavaScript, raw: code} }
func NewSymbol(v string) Value        { return Value{typ: TypeSymbol, raw: v} }
func NewJavaScriptWithScope(code string, scope *Document) Value {
	if scope == nil {
		scope = NewDocument()
	}
	return Value{typ: TypeJavaScriptWithScope, raw: JavaScriptWithScope{Code: code, Scope: scope}}
}
func NewInt32(v int32) Value    { return Value{typ: TypeInt32, raw: v} }
func NewTimestampValue(seconds, increment uint32) Value {
	return Value{typ: TypeTimestamp, raw: Timestamp{Seconds: seconds, Increment: increment}}
}
func NewInt64(v int64) Value      { return Value{typ: TypeInt64, raw: v} }
func NewDecimal128Value(d Decimal128) Value { return Value{typ: TypeDecimal128, raw: d} }
func NewMinKey() Value { return Value{typ: TypeMinKey, raw: minKeyMarker{}} }
func NewMaxKey() Value { return Value{typ: TypeMaxKey, raw: maxKeyMarker{}} }

// Type predicates.

func (v Value) IsDouble() bool             { return v.typ == TypeDouble }
func (v Value) IsString() bool             { return v.typ == TypeString }
func (v Value) IsDocument() bool           { return v.typ == TypeDocument }
func (v Value) IsArray() bool              { return v.typ == TypeArray }
func (v Value) IsBinary() bool             { return v.typ == TypeBinary }
func (v Value) IsUndefined() bool          { return v.typ == TypeUndefined }
func (v Value) IsObjectId() bool           { return v.typ == TypeObjectId }
func (v Value) IsBoolean() bool            { return v.typ == TypeBoolean }
func (v Value) IsDateTime() bool           { return v.typ == TypeDateTime }
func (v Value) IsNull() bool               { return v.typ == TypeNull }
func (v Value) IsRegularExpression() bool  { return v.typ == TypeRegularExpression }
func (v Value) IsDbPointer() bool          { return v.typ == TypeDbPointer }
func (v Value) IsJavaScript() bool         { return v.typ == TypeJavaScript }
func (v Value) IsSymbol() bool             { return v.typ == TypeSymbol }
func (v Value) IsJavaScriptWithScope() bool { return v.typ == TypeJavaScriptWithScope }
func (v Value) IsInt32() bool              { return v.typ == TypeInt32 }
func (v Value) IsTimestamp() bool          { return v.typ == TypeTimestamp }
func (v Value) IsInt64() bool              { return v.typ == TypeInt64 }
func (v Value) IsDecimal128() bool         { return v.typ == TypeDecimal128 }
func (v Value) IsMinKey() bool             { return v.typ == TypeMinKey }
func (v Value) IsMaxKey() bool             { return v.typ == TypeMaxKey }

func narrowErr(path string, want BsonType, got BsonType) error {
	return invalidOp(path, "Value expected to be of type %v is of unexpected type %v", want, got)
}

// Narrowing accessors, one per variant. Each fails with InvalidOperationError
// when the Value's tag doesn't match, per spec.md §4.D.

func (v Value) AsDouble() (float64, error) {
	if v.typ != TypeDouble {
		return 0, narrowErr("", TypeDouble, v.typ)
	}
	return v.raw.(float64), nil
}

func (v Value) AsString() (string, error) {
	if v.typ != TypeString {
		return "", narrowErr("", TypeString, v.typ)
	}
	return v.raw.(string), nil
}

func (v Value) AsDocument() (*Document, error) {
	if v.typ != TypeDocument {
		return nil, narrowErr("", TypeDocument, v.typ)
	}
	return v.raw.(*Document), nil
}

func (v Value) AsArray() (*Array, error) {
	if v.typ != TypeArray {
		return nil, narrowErr("", TypeArray, v.typ)
	}
	return v.raw.(*Array), nil
}

func (v Value) AsBinary() (Binary, error) {
	if v.typ != TypeBinary {
		return Binary{}, narrowErr("", TypeBinary, v.typ)
	}
	return v.raw.(Binary), nil
}

func (v Value) AsObjectId() (ObjectId, error) {
	if v.typ != TypeObjectId {
		return ObjectId{}, narrowErr("", TypeObjectId, v.typ)
	}
	return v.raw.(ObjectId), nil
}

func (v Value) AsBoolean() (bool, error) {
	if v.typ != TypeBoolean {
		return false, narrowErr("", TypeBoolean, v.typ)
	}
	return v.raw.(bool), nil
}

// AsDateTime returns the signed milliseconds-since-epoch payload.
func (v Value) AsDateTime() (int64, error) {
	if v.typ != TypeDateTime {
		return 0, narrowErr("", TypeDateTime, v.typ)
	}
	return v.raw.(int64), nil
}

func (v Value) AsRegularExpression() (Regex, error) {
	if v.typ != TypeRegularExpression {
		return Regex{}, narrowErr("", TypeRegularExpression, v.typ)
	}
	return v.raw.(Regex), nil
}

func (v Value) AsDbPointer() (DbPointer, error) {
	if v.typ != TypeDbPointer {
		return DbPointer{}, narrowErr("", TypeDbPointer, v.typ)
	}
	return v.raw.(DbPointer), nil
}

func (v Value) AsJavaScript() (string, error) {
	if v.typ != TypeJavaScript {
		return "", narrowErr("", TypeJavaScript, v.typ)
	}
	return v.raw.(string), nil
}

func (v Value) AsSymbol() (string, error) {
	if v.typ != TypeSymbol {
		return "", narrowErr("", TypeSymbol, v.typ)
	}
	return v.raw.(string), nil
}

func (v Value) AsJavaScriptWithScope() (JavaScriptWithScope, error) {
	if v.typ != TypeJavaScriptWithScope {
		return JavaScriptWithScope{}, narrowErr("", TypeJavaScriptWithScope, v.typ)
	}
	return v.raw.(JavaScriptWithScope), nil
}

func (v Value) AsInt32() (int32, error) {
	if v.typ != TypeInt32 {
		return 0, narrowErr("", TypeInt32, v.typ)
	}
	return v.raw.(int32), nil
}

func (v Value) AsTimestamp() (Timestamp, error) {
	if v.typ != TypeTimestamp {
		return Timestamp{}, narrowErr("", TypeTimestamp, v.typ)
	}
	return v.raw.(Timestamp), nil
}

func (v Value) AsInt64() (int64, error) {
	if v.typ != TypeInt64 {
		return 0, narrowErr("", TypeInt64, v.typ)
	}
	return v.raw.(int64), nil
}

func (v Value) AsDecimal128() (Decimal128, error) {
	if v.typ != TypeDecimal128 {
		return Decimal128{}, narrowErr("", TypeDecimal128, v.typ)
	}
	return v.raw.(Decimal128), nil
}

// Number is the view AsNumber returns over Int32/Int64/Double values,
// exposing the three truncating-or-rounding conversions spec.md §4.D names.
type Number struct {
	v Value
}

// AsNumber accepts Int32, Int64, or Double and fails with
// InvalidOperationError for any other variant.
func (v Value) AsNumber() (Number, error) {
	switch v.typ {
	case TypeInt32, TypeInt64, TypeDouble:
		return Number{v: v}, nil
	default:
		return Number{}, invalidOp("", "Value expected to be numeric is of unexpected type %v", v.typ)
	}
}

// IntValue truncates toward zero when the underlying value is a Double.
func (n Number) IntValue() int32 {
	switch n.v.typ {
	case TypeInt32:
		return n.v.raw.(int32)
	case TypeInt64:
		return int32(n.v.raw.(int64))
	case TypeDouble:
		return int32(n.v.raw.(float64))
	}
	return 0
}

// LongValue truncates toward zero when the underlying value is a Double.
func (n Number) LongValue() int64 {
	switch n.v.typ {
	case TypeInt32:
		return int64(n.v.raw.(int32))
	case TypeInt64:
		return n.v.raw.(int64)
	case TypeDouble:
		return int64(n.v.raw.(float64))
	}
	return 0
}

// DoubleValue widens integer variants exactly (within float64's range).
func (n Number) DoubleValue() float64 {
	switch n.v.typ {
	case TypeInt32:
		return float64(n.v.raw.(int32))
	case TypeInt64:
		return float64(n.v.raw.(int64))
	case TypeDouble:
		return n.v.raw.(float64)
	}
	return 0
}

// Equal implements the structural equality contract of spec.md §3.1:
// payload equality per variant, with Document comparing ordered entry
// sequences and Decimal128/NaN comparing by bit pattern.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeDouble:
		af, bf := a.raw.(float64), b.raw.(float64)
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	case TypeDocument:
		return a.raw.(*Document).Equal(b.raw.(*Document))
	case TypeArray:
		return a.raw.(*Array).Equal(b.raw.(*Array))
	case TypeBinary:
		ab, bb := a.raw.(Binary), b.raw.(Binary)
		return ab.Subtype == bb.Subtype && bytesEqual(ab.Data, bb.Data)
	case TypeRegularExpression:
		return a.raw.(Regex) == b.raw.(Regex)
	case TypeDbPointer:
		ad, bd := a.raw.(DbPointer), b.raw.(DbPointer)
		return ad.Namespace == bd.Namespace && ad.Id == bd.Id
	case TypeJavaScriptWithScope:
		aj, bj := a.raw.(JavaScriptWithScope), b.raw.(JavaScriptWithScope)
		return aj.Code == bj.Code && aj.Scope.Equal(bj.Scope)
	case TypeTimestamp:
		return a.raw.(Timestamp) == b.raw.(Timestamp)
	case TypeUndefined, TypeNull, TypeMinKey, TypeMaxKey:
		return true
	default:
		return a.raw == b.raw
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare orders the subset of variants spec.md §3.1 calls totally ordered:
// Int32, Int64, Double (numerically), DateTime, Timestamp, Boolean
// (false<true), and ObjectId (unsigned-byte lexicographic). Int32, Int64
// and Double also compare with each other, as doubles. ok is false for
// any other variant or any other type mismatch.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.typ != b.typ {
		// Numeric variants compare across tags.
		an, aErr := a.AsNumber()
		bn, bErr := b.AsNumber()
		if aErr == nil && bErr == nil {
			return compareFloat(an.DoubleValue(), bn.DoubleValue()), true
		}
		return 0, false
	}
	switch a.typ {
	case TypeInt32:
		return compareInt64(int64(a.raw.(int32)), int64(b.raw.(int32))), true
	case TypeInt64:
		return compareInt64(a.raw.(int64), b.raw.(int64)), true
	case TypeDouble:
		return compareFloat(a.raw.(float64), b.raw.(float64)), true
	case TypeDateTime:
		return compareInt64(a.raw.(int64), b.raw.(int64)), true
	case TypeTimestamp:
		ap, bp := a.raw.(Timestamp).Packed(), b.raw.(Timestamp).Packed()
		switch {
		case ap < bp:
			return -1, true
		case ap > bp:
			return 1, true
		}
		return 0, true
	case TypeBoolean:
		ab, bb := a.raw.(bool), b.raw.(bool)
		if ab == bb {
			return 0, true
		}
		if !ab && bb {
			return -1, true
		}
		return 1, true
	case TypeObjectId:
		return CompareObjectId(a.raw.(ObjectId), b.raw.(ObjectId)), true
	default:
		return 0, false
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Clone deep-copies Document and Array values (recursively), and the scope
// Document of a JavaScriptWithScope; it returns every other variant
// unchanged, since only Document and Array are mutable (spec.md §3.1
// Lifecycle). Binary's backing slice is copied too, because its bytes are
// externally mutable even though the Binary value itself isn't a container.
func (v Value) Clone() Value {
	switch v.typ {
	case TypeDocument:
		return DocumentValue(v.raw.(*Document).Clone())
	case TypeArray:
		return ArrayValue(v.raw.(*Array).Clone())
	case TypeBinary:
		b := v.raw.(Binary)
		return NewBinary(b.Subtype, b.Data)
	case TypeJavaScriptWithScope:
		j := v.raw.(JavaScriptWithScope)
		return NewJavaScriptWithScope(j.Code, j.Scope.Clone())
	default:
		return v
	}
}
