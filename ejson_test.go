package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEJSONRoundTripAllTypes(t *testing.T) {
	doc := sampleDocument()
	buf, err := MarshalEJSONDocument(doc)
	require.NoError(t, err)

	back, err := UnmarshalEJSONDocument(buf)
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestEJSONOidEnvelope(t *testing.T) {
	id, _ := ObjectIdFromHex("507f1f77bcf86cd799439011")
	buf, err := MarshalEJSON(NewObjectIdValue(id))
	require.NoError(t, err)
	require.JSONEq(t, `{"$oid":"507f1f77bcf86cd799439011"}`, string(buf))

	v, err := UnmarshalEJSON(buf)
	require.NoError(t, err)
	back, err := v.AsObjectId()
	require.NoError(t, err)
	require.Equal(t, id, back)
}

func TestEJSONDateEnvelope(t *testing.T) {
	buf, err := MarshalEJSON(NewDateTime(1577836800000))
	require.NoError(t, err)
	require.JSONEq(t, `{"$date":{"$numberLong":"1577836800000"}}`, string(buf))

	v, err := UnmarshalEJSON(buf)
	require.NoError(t, err)
	ms, err := v.AsDateTime()
	require.NoError(t, err)
	require.Equal(t, int64(1577836800000), ms)
}

func TestEJSONLegacyBinaryInput(t *testing.T) {
	v, err := UnmarshalEJSON([]byte(`{"$binary":"AQID","$type":"00"}`))
	require.NoError(t, err)
	b, err := v.AsBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b.Data)
	require.Equal(t, SubtypeGeneric, b.Subtype)
}

func TestEJSONPlainDocumentKeyStartingWithDollarIsPreserved(t *testing.T) {
	doc := NewDocument().Append("$unrecognized", NewInt32(1))
	buf, err := MarshalEJSONDocument(doc)
	require.NoError(t, err)

	back, err := UnmarshalEJSONDocument(buf)
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestEJSONJavaScriptWithScope(t *testing.T) {
	scope := NewDocument().Append("x", NewInt32(1))
	v := NewJavaScriptWithScope("function(){}", scope)
	buf, err := MarshalEJSON(v)
	require.NoError(t, err)

	back, err := UnmarshalEJSON(buf)
	require.NoError(t, err)
	require.True(t, Equal(v, back))
}

func TestDocumentJSONMarshalerInterface(t *testing.T) {
	doc := NewDocument().Append("n", NewInt32(5))
	buf, err := doc.MarshalJSON()
	require.NoError(t, err)

	var back Document
	require.NoError(t, back.UnmarshalJSON(buf))
	require.True(t, doc.Equal(&back))
}
