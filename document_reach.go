package bson

import "strconv"

// Reach walks a dot-separated path through nested Documents, Arrays
// (numeric path segments index into them), and the named fields of
// DbPointer/JavaScriptWithScope, generalizing the teacher's Map.Reach/
// Slice.Reach/reach (reach.go) from map[string]interface{} dispatch to the
// Value model's uniform accessors. ok is false if any segment is missing
// or the current value can't be reached into.
func (d *Document) Reach(path string) (v Value, ok bool) {
	cur := DocumentValue(d)
	for _, name := range splitPath(path) {
		next, found := reachInto(cur, name)
		if !found {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// ReachInto is Reach plus a coercing assignment into dst, mirroring the
// teacher's Map.Reach(dst, dot...) signature.
func (d *Document) ReachInto(dst interface{}, path string) (bool, error) {
	v, ok := d.Reach(path)
	if !ok {
		return false, nil
	}
	if err := UnmarshalGo(v, dst); err != nil {
		return false, err
	}
	return true, nil
}

func reachInto(cur Value, name string) (Value, bool) {
	switch cur.typ {
	case TypeDocument:
		d, _ := cur.AsDocument()
		return d.Get(name)
	case TypeArray:
		a, _ := cur.AsArray()
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= a.Len() {
			return Value{}, false
		}
		v, _ := a.Get(i)
		return v, true
	case TypeDbPointer:
		p, _ := cur.AsDbPointer()
		switch name {
		case "Namespace":
			return NewString(p.Namespace), true
		case "Id":
			return NewObjectIdValue(p.Id), true
		}
		return Value{}, false
	case TypeJavaScriptWithScope:
		j, _ := cur.AsJavaScriptWithScope()
		switch name {
		case "Code":
			return NewJavaScript(j.Code), true
		case "Scope":
			return DocumentValue(j.Scope), true
		}
		return Value{}, false
	case TypeRegularExpression:
		r, _ := cur.AsRegularExpression()
		switch name {
		case "Pattern":
			return NewString(r.Pattern), true
		case "Options":
			return NewString(r.Options), true
		}
		return Value{}, false
	default:
		return Value{}, false
	}
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	out = append(out, path[start:])
	return out
}
