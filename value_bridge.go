package bson

// writeValueDispatch is the Writer-agnostic half of Writer.WriteValue: it
// writes v's scalar payload directly or recurses through
// writeDocumentTree/writeArrayTree for the three container-shaped variants.
// BinaryWriter and DocumentWriter both delegate their WriteValue to this.
func writeValueDispatch(w Writer, v Value) error {
	switch v.typ {
	case TypeDouble:
		f, _ := v.AsDouble()
		return w.WriteDouble(f)
	case TypeString:
		s, _ := v.AsString()
		return w.WriteString(s)
	case TypeDocument:
		d, _ := v.AsDocument()
		return writeDocumentTree(w, d)
	case TypeArray:
		a, _ := v.AsArray()
		return writeArrayTree(w, a)
	case TypeBinary:
		b, _ := v.AsBinary()
		return w.WriteBinary(b)
	case TypeUndefined:
		return w.WriteUndefined()
	case TypeObjectId:
		id, _ := v.AsObjectId()
		return w.WriteObjectId(id)
	case TypeBoolean:
		b, _ := v.AsBoolean()
		return w.WriteBoolean(b)
	case TypeDateTime:
		ms, _ := v.AsDateTime()
		return w.WriteDateTime(ms)
	case TypeNull:
		return w.WriteNull()
	case TypeRegularExpression:
		r, _ := v.AsRegularExpression()
		return w.WriteRegularExpression(r)
	case TypeDbPointer:
		p, _ := v.AsDbPointer()
		return w.WriteDbPointer(p)
	case TypeJavaScript:
		s, _ := v.AsJavaScript()
		return w.WriteJavaScript(s)
	case TypeSymbol:
		s, _ := v.AsSymbol()
		return w.WriteSymbol(s)
	case TypeJavaScriptWithScope:
		j, _ := v.AsJavaScriptWithScope()
		if err := w.WriteJavaScriptWithScope(j.Code); err != nil {
			return err
		}
		if err := w.WriteStartDocument(); err != nil {
			return err
		}
		if err := writeDocumentFields(w, j.Scope); err != nil {
			return err
		}
		return w.WriteEndDocument()
	case TypeInt32:
		i, _ := v.AsInt32()
		return w.WriteInt32(i)
	case TypeTimestamp:
		t, _ := v.AsTimestamp()
		return w.WriteTimestamp(t)
	case TypeInt64:
		i, _ := v.AsInt64()
		return w.WriteInt64(i)
	case TypeDecimal128:
		d, _ := v.AsDecimal128()
		return w.WriteDecimal128(d)
	case TypeMinKey:
		return w.WriteMinKey()
	case TypeMaxKey:
		return w.WriteMaxKey()
	default:
		return invalidOp("", "cannot write value of unknown type %v", v.typ)
	}
}

func writeDocumentFields(w Writer, d *Document) error {
	for _, k := range d.Keys() {
		val, _ := d.Get(k)
		if err := w.WriteName(k); err != nil {
			return err
		}
		if err := w.WriteValue(val); err != nil {
			return err
		}
	}
	return nil
}

func writeDocumentTree(w Writer, d *Document) error {
	if err := w.WriteStartDocument(); err != nil {
		return err
	}
	if err := writeDocumentFields(w, d); err != nil {
		return err
	}
	return w.WriteEndDocument()
}

func writeArrayTree(w Writer, a *Array) error {
	if err := w.WriteStartArray(); err != nil {
		return err
	}
	for _, v := range a.Values() {
		if err := w.WriteValue(v); err != nil {
			return err
		}
	}
	return w.WriteEndArray()
}

// readValueDispatch is the Reader-agnostic half of Reader.ReadValue: given
// the type tag already pulled off the wire (or off a Document/Array tree),
// it reads the scalar payload directly or recurses through
// readDocumentTree/readArrayTree for the three container-shaped variants.
// BinaryReader and DocumentReader both delegate their ReadValue to this so
// the recursive-descent logic for Document/Array/JavaScriptWithScope is
// written once instead of twice.
func readValueDispatch(r Reader, t BsonType) (Value, error) {
	switch t {
	case TypeDouble:
		v, err := r.ReadDouble()
		return NewDouble(v), err
	case TypeString:
		v, err := r.ReadString()
		return NewString(v), err
	case TypeDocument:
		d, err := readDocumentTree(r)
		return DocumentValue(d), err
	case TypeArray:
		a, err := readArrayTree(r)
		return ArrayValue(a), err
	case TypeBinary:
		v, err := r.ReadBinary()
		return Value{typ: TypeBinary, raw: v}, err
	case TypeUndefined:
		err := r.ReadUndefined()
		return NewUndefined(), err
	case TypeObjectId:
		v, err := r.ReadObjectId()
		return NewObjectIdValue(v), err
	case TypeBoolean:
		v, err := r.ReadBoolean()
		return NewBoolean(v), err
	case TypeDateTime:
		v, err := r.ReadDateTime()
		return NewDateTime(v), err
	case TypeNull:
		err := r.ReadNull()
		return NewNull(), err
	case TypeRegularExpression:
		v, err := r.ReadRegularExpression()
		return Value{typ: TypeRegularExpression, raw: v}, err
	case TypeDbPointer:
		v, err := r.ReadDbPointer()
		return Value{typ: TypeDbPointer, raw: v}, err
	case TypeJavaScript:
		v, err := r.ReadJavaScript()
		return NewJavaScript(v), err
	case TypeSymbol:
		v, err := r.ReadSymbol()
		return NewSymbol(v), err
	case TypeJavaScriptWithScope:
		code, err := r.ReadJavaScriptWithScope()
		if err != nil {
			return Value{}, err
		}
		if err := r.ReadStartDocument(); err != nil {
			return Value{}, err
		}
		scope, err := readDocumentFields(r)
		if err != nil {
			return Value{}, err
		}
		if err := r.ReadEndDocument(); err != nil {
			return Value{}, err
		}
		return NewJavaScriptWithScope(code, scope), nil
	case TypeInt32:
		v, err := r.ReadInt32()
		return NewInt32(v), err
	case TypeTimestamp:
		v, err := r.ReadTimestamp()
		return Value{typ: TypeTimestamp, raw: v}, err
	case TypeInt64:
		v, err := r.ReadInt64()
		return NewInt64(v), err
	case TypeDecimal128:
		v, err := r.ReadDecimal128()
		return NewDecimal128Value(v), err
	case TypeMinKey:
		err := r.ReadMinKey()
		return NewMinKey(), err
	case TypeMaxKey:
		err := r.ReadMaxKey()
		return NewMaxKey(), err
	default:
		return Value{}, serializationErr("", "unsupported BSON type tag 0x%02X", byte(t))
	}
}

// readDocumentFields loops ReadBsonType/ReadName/ReadValue until the
// terminator, assuming ReadStartDocument has already been called.
func readDocumentFields(r Reader) (*Document, error) {
	doc := NewDocument()
	for {
		t, err := r.ReadBsonType()
		if err != nil {
			return nil, err
		}
		if t == endOfDocument {
			return doc, nil
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadValue(t)
		if err != nil {
			return nil, err
		}
		doc.Append(name, v)
	}
}

// readDocumentTree assumes the element's type tag was TypeDocument: it
// opens, reads every field, and closes.
func readDocumentTree(r Reader) (*Document, error) {
	if err := r.ReadStartDocument(); err != nil {
		return nil, err
	}
	doc, err := readDocumentFields(r)
	if err != nil {
		return nil, err
	}
	if err := r.ReadEndDocument(); err != nil {
		return nil, err
	}
	return doc, nil
}

// readArrayTree assumes the element's type tag was TypeArray.
func readArrayTree(r Reader) (*Array, error) {
	if err := r.ReadStartArray(); err != nil {
		return nil, err
	}
	arr := NewArray()
	for {
		t, err := r.ReadBsonType()
		if err != nil {
			return nil, err
		}
		if t == endOfDocument {
			break
		}
		if err := r.SkipName(); err != nil {
			return nil, err
		}
		v, err := r.ReadValue(t)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	if err := r.ReadEndArray(); err != nil {
		return nil, err
	}
	return arr, nil
}
