package bson

// MarshalJSON implements encoding/json.Marshaler by rendering d as canonical
// Extended JSON (MarshalEJSONDocument), so a *Document can be dropped into
// any encoding/json-based pipeline (an HTTP handler's json.NewEncoder, a
// struct field of type *bson.Document) without callers needing to know
// about the EJSON codec explicitly.
func (d *Document) MarshalJSON() ([]byte, error) {
	return MarshalEJSONDocument(d)
}

// UnmarshalJSON implements encoding/json.Unmarshaler, the inverse of
// MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := UnmarshalEJSONDocument(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
