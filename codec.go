// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import "fmt"

// Marshal encodes d to the BSON wire format.
func Marshal(d *Document) ([]byte, error) {
	w := NewBinaryWriter()
	if err := writeDocumentTree(w, d); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// MustMarshal is Marshal, panicking on error.
func MustMarshal(d *Document) []byte {
	b, err := Marshal(d)
	if err != nil {
		panic(err)
	}
	return b
}

// Unmarshal decodes one complete top-level BSON document from buf.
func Unmarshal(buf []byte) (*Document, error) {
	r := NewBinaryReader(buf)
	return readDocumentTree(r)
}

// String pretty-prints d in the teacher's "Type(value)" style, recursing
// into nested Documents and Arrays.
func (d *Document) String() string {
	s := "Document["
	for i, k := range d.keys {
		if i > 0 {
			s += " "
		}
		v, _ := d.Get(k)
		s += fmt.Sprintf("%v: %v", k, printValue(v))
	}
	return s + "]"
}

// String pretty-prints a in the teacher's "Type(value)" style.
func (a *Array) String() string {
	s := "Array(["
	for i, v := range a.items {
		if i > 0 {
			s += " "
		}
		s += printValue(v)
	}
	return s + "])"
}

func printValue(v Value) string {
	switch v.typ {
	case TypeDocument:
		d, _ := v.AsDocument()
		return d.String()
	case TypeArray:
		a, _ := v.AsArray()
		return a.String()
	case TypeDouble:
		f, _ := v.AsDouble()
		return fmt.Sprintf("Double(%v)", f)
	case TypeString:
		s, _ := v.AsString()
		return fmt.Sprintf("String(%v)", s)
	case TypeBinary:
		b, _ := v.AsBinary()
		return fmt.Sprintf("Binary(subtype=%02X, %d bytes)", byte(b.Subtype), len(b.Data))
	case TypeUndefined:
		return "Undefined()"
	case TypeObjectId:
		id, _ := v.AsObjectId()
		return fmt.Sprintf("ObjectId(%v)", id.Hex())
	case TypeBoolean:
		b, _ := v.AsBoolean()
		return fmt.Sprintf("Bool(%v)", b)
	case TypeDateTime:
		ms, _ := v.AsDateTime()
		return fmt.Sprintf("DateTime(%v)", ms)
	case TypeNull:
		return "Null()"
	case TypeRegularExpression:
		r, _ := v.AsRegularExpression()
		return fmt.Sprintf("Regex(Pattern(%v) Options(%v))", r.Pattern, r.Options)
	case TypeDbPointer:
		p, _ := v.AsDbPointer()
		return fmt.Sprintf("DbPointer(Namespace(%v) Id(%v))", p.Namespace, p.Id.Hex())
	case TypeJavaScript:
		s, _ := v.AsJavaScript()
		return fmt.Sprintf("JavaScript(%v)", s)
	case TypeSymbol:
		s, _ := v.AsSymbol()
		return fmt.Sprintf("Symbol(%v)", s)
	case TypeJavaScriptWithScope:
		j, _ := v.AsJavaScriptWithScope()
		return fmt.Sprintf("JavaScriptWithScope(Code(%v) Scope(%v))", j.Code, j.Scope.String())
	case TypeInt32:
		i, _ := v.AsInt32()
		return fmt.Sprintf("Int32(%v)", i)
	case TypeTimestamp:
		t, _ := v.AsTimestamp()
		return fmt.Sprintf("Timestamp(%v)", t.Packed())
	case TypeInt64:
		i, _ := v.AsInt64()
		return fmt.Sprintf("Int64(%v)", i)
	case TypeDecimal128:
		d, _ := v.AsDecimal128()
		return fmt.Sprintf("Decimal128(%v)", d.String())
	case TypeMinKey:
		return "MinKey()"
	case TypeMaxKey:
		return "MaxKey()"
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}
