package bson

// Pipe forwards one complete top-level document from r to w without
// materializing the whole thing in memory first, the same shape as the
// teacher's ReadOne (decode.go) feeding straight into a BSON-typed field,
// generalized to work between any Reader/Writer pair — BinaryReader into
// DocumentWriter decodes to a tree, DocumentReader into BinaryWriter
// re-encodes a tree, BinaryReader into BinaryWriter recompresses or
// re-frames without ever allocating a Document.
func Pipe(w Writer, r Reader) error {
	if err := r.ReadStartDocument(); err != nil {
		return err
	}
	if err := w.WriteStartDocument(); err != nil {
		return err
	}
	if err := pipeFields(w, r); err != nil {
		return err
	}
	if err := r.ReadEndDocument(); err != nil {
		return err
	}
	return w.WriteEndDocument()
}

func pipeFields(w Writer, r Reader) error {
	for {
		t, err := r.ReadBsonType()
		if err != nil {
			return err
		}
		if t == endOfDocument {
			return nil
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		if err := w.WriteName(name); err != nil {
			return err
		}
		if err := pipeValue(w, r, t); err != nil {
			return err
		}
	}
}

func pipeValue(w Writer, r Reader, t BsonType) error {
	switch t {
	case TypeDocument:
		if err := r.ReadStartDocument(); err != nil {
			return err
		}
		if err := w.WriteStartDocument(); err != nil {
			return err
		}
		if err := pipeFields(w, r); err != nil {
			return err
		}
		if err := r.ReadEndDocument(); err != nil {
			return err
		}
		return w.WriteEndDocument()
	case TypeArray:
		if err := r.ReadStartArray(); err != nil {
			return err
		}
		if err := w.WriteStartArray(); err != nil {
			return err
		}
		for {
			et, err := r.ReadBsonType()
			if err != nil {
				return err
			}
			if et == endOfDocument {
				break
			}
			if err := r.SkipName(); err != nil {
				return err
			}
			if err := pipeValue(w, r, et); err != nil {
				return err
			}
		}
		if err := r.ReadEndArray(); err != nil {
			return err
		}
		return w.WriteEndArray()
	case TypeJavaScriptWithScope:
		code, err := r.ReadJavaScriptWithScope()
		if err != nil {
			return err
		}
		if err := w.WriteJavaScriptWithScope(code); err != nil {
			return err
		}
		if err := r.ReadStartDocument(); err != nil {
			return err
		}
		if err := w.WriteStartDocument(); err != nil {
			return err
		}
		if err := pipeFields(w, r); err != nil {
			return err
		}
		if err := r.ReadEndDocument(); err != nil {
			return err
		}
		return w.WriteEndDocument()
	default:
		v, err := r.ReadValue(t)
		if err != nil {
			return err
		}
		return w.WriteValue(v)
	}
}
