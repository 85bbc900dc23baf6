package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentReachNestedPath(t *testing.T) {
	inner := NewDocument().Append("city", NewString("nyc"))
	arr := NewArray().Append(NewInt32(10)).Append(NewInt32(20))
	doc := NewDocument().
		Append("addr", DocumentValue(inner)).
		Append("nums", ArrayValue(arr)).
		Append("dbptr", NewDbPointer("db.coll", NewObjectId()))

	v, ok := doc.Reach("addr.city")
	require.True(t, ok)
	s, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "nyc", s)

	v, ok = doc.Reach("nums.1")
	require.True(t, ok)
	i, err := v.AsInt32()
	require.NoError(t, err)
	require.Equal(t, int32(20), i)

	v, ok = doc.Reach("dbptr.Namespace")
	require.True(t, ok)
	ns, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "db.coll", ns)

	_, ok = doc.Reach("addr.missing")
	require.False(t, ok)

	_, ok = doc.Reach("nums.99")
	require.False(t, ok)
}

func TestDocumentReachInto(t *testing.T) {
	doc := NewDocument().Append("count", NewInt32(7))
	var n int32
	ok, err := doc.ReachInto(&n, "count")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(7), n)
}
