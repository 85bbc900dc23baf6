package bson

import (
	"reflect"
	"time"

	"github.com/nilsbr/bson/internal/fieldcache"
)

// MarshalGo converts a Go struct, map, or slice into a Value using
// reflection, generalizing the teacher's encodeVal (encode.go) big type
// switch from "write straight to a byte buffer" to "build a Value tree"
// so the same reflection bridge feeds either Marshal (binary) or the
// EJSON encoder.
func MarshalGo(src interface{}) (Value, error) {
	return valueFromGo("", reflect.ValueOf(src))
}

// MarshalGoDocument is MarshalGo for callers that know src encodes to a
// document (a struct or map), the common case, returning *Document
// directly instead of a Value wrapping one.
func MarshalGoDocument(src interface{}) (*Document, error) {
	v, err := valueFromGo("", reflect.ValueOf(src))
	if err != nil {
		return nil, err
	}
	d, err := v.AsDocument()
	if err != nil {
		return nil, invalidOp("", "%T does not encode to a document", src)
	}
	return d, nil
}

func valueFromGo(path string, rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return NewNull(), nil
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return NewNull(), nil
		}
		return valueFromGo(path, rv.Elem())
	}

	// Passthrough for the library's own value types and well-known
	// standard-library types the teacher's encode.go special-cased
	// (time.Time, []byte) ahead of the generic reflect fallback.
	switch src := rv.Interface().(type) {
	case Value:
		return src, nil
	case *Document:
		return DocumentValue(src), nil
	case *Array:
		return ArrayValue(src), nil
	case Binary:
		return Value{typ: TypeBinary, raw: src}, nil
	case ObjectId:
		return NewObjectIdValue(src), nil
	case Regex:
		return Value{typ: TypeRegularExpression, raw: src}, nil
	case DbPointer:
		return Value{typ: TypeDbPointer, raw: src}, nil
	case JavaScriptWithScope:
		return Value{typ: TypeJavaScriptWithScope, raw: src}, nil
	case Timestamp:
		return Value{typ: TypeTimestamp, raw: src}, nil
	case Decimal128:
		return NewDecimal128Value(src), nil
	case time.Time:
		return NewDateTime(src.UnixNano() / int64(time.Millisecond)), nil
	case []byte:
		return NewBinary(SubtypeGeneric, src), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return NewBoolean(rv.Bool()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return NewInt32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return NewInt64(rv.Int()), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return NewInt32(int32(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64:
		return NewInt64(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return NewDouble(rv.Float()), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Struct:
		return structToValue(path, rv)
	case reflect.Map:
		return mapToValue(path, rv)
	case reflect.Slice, reflect.Array:
		return sliceToValue(path, rv)
	default:
		return Value{}, invalidOp(path, "cannot encode Go value of kind %v", rv.Kind())
	}
}

func structToValue(path string, rv reflect.Value) (Value, error) {
	doc := NewDocument()
	for _, f := range fieldcache.Fields(rv.Type()) {
		fv := rv.Field(f.Index)
		if f.OmitEmpty && isEmptyGoValue(fv) {
			continue
		}
		fieldPath := catpath(path, f.Name)
		v, err := valueFromGo(fieldPath, fv)
		if err != nil {
			return Value{}, err
		}
		doc.Append(f.Name, v)
	}
	return DocumentValue(doc), nil
}

func mapToValue(path string, rv reflect.Value) (Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return Value{}, invalidOp(path, "map key type %v is not string", rv.Type().Key())
	}
	doc := NewDocument()
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		v, err := valueFromGo(catpath(path, key), iter.Value())
		if err != nil {
			return Value{}, err
		}
		doc.Append(key, v)
	}
	return DocumentValue(doc), nil
}

func sliceToValue(path string, rv reflect.Value) (Value, error) {
	arr := NewArray()
	for i := 0; i < rv.Len(); i++ {
		v, err := valueFromGo(catpath(path, itoa(i)), rv.Index(i))
		if err != nil {
			return Value{}, err
		}
		arr.Append(v)
	}
	return ArrayValue(arr), nil
}

func catpath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func isEmptyGoValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

// UnmarshalGo decodes v into dst, which must be a non-nil pointer to a
// struct, map, or slice compatible with v's shape. It is the inverse of
// MarshalGo.
func UnmarshalGo(v Value, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return invalidOp("", "UnmarshalGo destination must be a non-nil pointer")
	}
	return goFromValue("", v, rv.Elem())
}

func goFromValue(path string, v Value, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return goFromValue(path, v, dst.Elem())
	}

	if dst.Type() == reflect.TypeOf(Value{}) {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	if dst.Type() == reflect.TypeOf(time.Time{}) {
		ms, err := v.AsDateTime()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(time.Unix(0, ms*int64(time.Millisecond))))
		return nil
	}

	switch v.typ {
	case TypeDouble:
		f, _ := v.AsDouble()
		if dst.Kind() != reflect.Float64 && dst.Kind() != reflect.Float32 {
			return narrowErr(path, TypeDouble, v.typ)
		}
		dst.SetFloat(f)
	case TypeString:
		s, _ := v.AsString()
		if dst.Kind() != reflect.String {
			return narrowErr(path, TypeString, v.typ)
		}
		dst.SetString(s)
	case TypeBoolean:
		b, _ := v.AsBoolean()
		if dst.Kind() != reflect.Bool {
			return narrowErr(path, TypeBoolean, v.typ)
		}
		dst.SetBool(b)
	case TypeInt32:
		i, _ := v.AsInt32()
		switch dst.Kind() {
		case reflect.Int32, reflect.Int16, reflect.Int8, reflect.Int, reflect.Int64:
			dst.SetInt(int64(i))
		default:
			return narrowErr(path, TypeInt32, v.typ)
		}
	case TypeInt64:
		i, _ := v.AsInt64()
		if dst.Kind() != reflect.Int64 && dst.Kind() != reflect.Int {
			return narrowErr(path, TypeInt64, v.typ)
		}
		dst.SetInt(i)
	case TypeBinary:
		b, _ := v.AsBinary()
		if dst.Kind() != reflect.Slice || dst.Type().Elem().Kind() != reflect.Uint8 {
			return narrowErr(path, TypeBinary, v.typ)
		}
		dst.SetBytes(b.Data)
	case TypeDocument:
		d, _ := v.AsDocument()
		return documentToGo(path, d, dst)
	case TypeArray:
		a, _ := v.AsArray()
		return arrayToGo(path, a, dst)
	case TypeObjectId, TypeRegularExpression, TypeDbPointer, TypeJavaScriptWithScope,
		TypeTimestamp, TypeDecimal128:
		if dst.Type() != reflect.TypeOf(v.raw) {
			return invalidOp(path, "cannot decode %v into %v", v.typ, dst.Type())
		}
		dst.Set(reflect.ValueOf(v.raw))
	case TypeNull, TypeUndefined:
		// Leave dst at its zero value.
	default:
		return invalidOp(path, "cannot decode value of type %v into Go", v.typ)
	}
	return nil
}

func documentToGo(path string, d *Document, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Struct:
		for _, f := range fieldcache.Fields(dst.Type()) {
			v, ok := d.Get(f.Name)
			if !ok {
				continue
			}
			if err := goFromValue(catpath(path, f.Name), v, dst.Field(f.Index)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return invalidOp(path, "map key type %v is not string", dst.Type().Key())
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := goFromValue(catpath(path, k), v, ev); err != nil {
				return err
			}
			dst.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
		}
		return nil
	default:
		return invalidOp(path, "cannot decode a document into %v", dst.Type())
	}
}

func arrayToGo(path string, a *Array, dst reflect.Value) error {
	if dst.Kind() != reflect.Slice && dst.Kind() != reflect.Array {
		return invalidOp(path, "cannot decode an array into %v", dst.Type())
	}
	n := a.Len()
	if dst.Kind() == reflect.Slice {
		dst.Set(reflect.MakeSlice(dst.Type(), n, n))
	} else if dst.Len() < n {
		return invalidOp(path, "array has %d elements, destination has room for %d", n, dst.Len())
	}
	for i := 0; i < n; i++ {
		v, _ := a.Get(i)
		if err := goFromValue(catpath(path, itoa(i)), v, dst.Index(i)); err != nil {
			return err
		}
	}
	return nil
}
