package bson

// DbPointer is the deprecated BSON DBPointer variant: a namespace string
// plus an ObjectId (spec.md §3.1 tag 0x0C). It round-trips but carries no
// other behavior.
type DbPointer struct {
	Namespace string
	Id        ObjectId
}

// JavaScriptWithScope is the BSON JavaScript-with-scope variant: source
// code plus a scope Document (spec.md §3.1 tag 0x0F).
type JavaScriptWithScope struct {
	Code  string
	Scope *Document
}
