package bson

// Writer is the push-style BSON writer contract (spec.md §4.F): a caller
// drives it through WriteStartDocument/WriteName/WriteXxx/WriteEndDocument
// calls, and it tracks its own context stack and state so misuse (writing a
// value with no pending name, closing a document that was never opened)
// fails immediately instead of producing malformed output.
//
// BinaryWriter (binary_writer.go) implements this over a growable byte
// buffer; DocumentWriter (document_writer.go) implements it over a
// *Document/*Array tree, so the same Pipe logic (pipe.go) can convert
// between wire bytes and a Document/Array tree without a third, bespoke
// conversion path.
type Writer interface {
	WriteStartDocument() error
	WriteEndDocument() error
	WriteStartArray() error
	WriteEndArray() error
	WriteName(name string) error

	WriteDouble(v float64) error
	WriteString(v string) error
	WriteBinary(v Binary) error
	WriteUndefined() error
	WriteObjectId(v ObjectId) error
	WriteBoolean(v bool) error
	WriteDateTime(millisSinceEpoch int64) error
	WriteNull() error
	WriteRegularExpression(v Regex) error
	WriteDbPointer(v DbPointer) error
	WriteJavaScript(code string) error
	WriteSymbol(v string) error
	// WriteJavaScriptWithScope begins a JavaScript-with-scope element; the
	// caller must follow it with WriteStartDocument/.../WriteEndDocument
	// for the scope.
	WriteJavaScriptWithScope(code string) error
	WriteInt32(v int32) error
	WriteTimestamp(v Timestamp) error
	WriteInt64(v int64) error
	WriteDecimal128(v Decimal128) error
	WriteMinKey() error
	WriteMaxKey() error

	// WriteValue writes a self-contained Value under the pending name (or
	// as the next array element), recursing into Document/Array/
	// JavaScriptWithScope as needed. It is the bridge pipe.go and the
	// tree-from-Value helpers build on instead of requiring every caller
	// to switch on BsonType by hand.
	WriteValue(v Value) error

	Close() error
}

// stateful is implemented by writers that can report their current
// state; nothing in the package calls it at present.
type stateful interface {
	state() WriterState
}
