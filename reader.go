package bson

// Reader is the pull-style BSON reader contract (spec.md §4.F): the caller
// drives it through ReadBsonType/ReadName/ReadXxx/ReadStartDocument/
// ReadEndDocument calls, mirroring Writer's call shape so Pipe can forward
// one reader's output directly into any writer.
type Reader interface {
	// ReadBsonType advances past the current element's type tag (or
	// detects the document/array terminator) and reports it. Calling it
	// again before consuming the element's name and value is an error.
	ReadBsonType() (BsonType, error)
	ReadName() (string, error)
	SkipName() error
	SkipValue() error

	ReadStartDocument() error
	ReadEndDocument() error
	ReadStartArray() error
	ReadEndArray() error

	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBinary() (Binary, error)
	ReadUndefined() error
	ReadObjectId() (ObjectId, error)
	ReadBoolean() (bool, error)
	ReadDateTime() (int64, error)
	ReadNull() error
	ReadRegularExpression() (Regex, error)
	ReadDbPointer() (DbPointer, error)
	ReadJavaScript() (string, error)
	ReadSymbol() (string, error)
	// ReadJavaScriptWithScope returns the code; the caller must follow it
	// with ReadStartDocument/.../ReadEndDocument to consume the scope.
	ReadJavaScriptWithScope() (string, error)
	ReadInt32() (int32, error)
	ReadTimestamp() (Timestamp, error)
	ReadInt64() (int64, error)
	ReadDecimal128() (Decimal128, error)
	ReadMinKey() error
	ReadMaxKey() error

	// ReadValue reads one whole element's value (the type tag and name
	// must already have been consumed by ReadBsonType/ReadName) and
	// returns it as a Value, recursing into Document/Array/
	// JavaScriptWithScope as needed.
	ReadValue(t BsonType) (Value, error)

	Close() error
}
