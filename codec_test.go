package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	scope := NewDocument().Append("x", NewInt32(1))
	inner := NewDocument().Append("a", NewInt32(1)).Append("b", NewString("nested"))
	arr := NewArray().Append(NewInt32(1)).Append(NewString("two")).Append(DocumentValue(inner.Clone()))
	return NewDocument().
		Append("double", NewDouble(3.25)).
		Append("string", NewString("hello")).
		Append("doc", DocumentValue(inner)).
		Append("array", ArrayValue(arr)).
		Append("binary", NewBinary(SubtypeGeneric, []byte{1, 2, 3})).
		Append("undefined", NewUndefined()).
		Append("oid", NewObjectIdValue(NewObjectId())).
		Append("bool", NewBoolean(true)).
		Append("date", NewDateTime(1234567890)).
		Append("null", NewNull()).
		Append("regex", NewRegularExpression("^a.*z$", "imx")).
		Append("dbptr", NewDbPointer("db.coll", NewObjectId())).
		Append("code", NewJavaScript("function(){}")).
		Append("symbol", NewSymbol("sym")).
		Append("codeWithScope", NewJavaScriptWithScope("function(){}", scope)).
		Append("int32", NewInt32(42)).
		Append("ts", NewTimestampValue(100, 1)).
		Append("int64", NewInt64(9999999999)).
		Append("minkey", NewMinKey()).
		Append("maxkey", NewMaxKey())
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	doc := sampleDocument()
	buf, err := Marshal(doc)
	require.NoError(t, err)

	back, err := Unmarshal(buf)
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestUnmarshalEmptyDocument(t *testing.T) {
	buf, err := Marshal(NewDocument())
	require.NoError(t, err)
	require.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x00}, buf)

	back, err := Unmarshal(buf)
	require.NoError(t, err)
	require.Equal(t, 0, back.Len())
}

func TestDocumentStringPrettyPrint(t *testing.T) {
	doc := NewDocument().Append("n", NewInt32(1))
	require.Contains(t, doc.String(), "Int32(1)")
}

func TestBinaryReaderRejectsTruncatedInput(t *testing.T) {
	_, err := Unmarshal([]byte{0x05, 0x00, 0x00, 0x00})
	require.Error(t, err)
}
