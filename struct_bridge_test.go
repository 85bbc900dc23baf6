package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type bridgePerson struct {
	Name    string `bson:"name"`
	Age     int32  `bson:"age,omitempty"`
	Tags    []string
	Hidden  string `bson:"-"`
	private string
}

func TestMarshalGoUnmarshalGoRoundTrip(t *testing.T) {
	src := bridgePerson{Name: "ada", Age: 30, Tags: []string{"x", "y"}, Hidden: "nope"}
	doc, err := MarshalGoDocument(src)
	require.NoError(t, err)
	require.Equal(t, "ada", doc.GetStringDefault("name", ""))
	require.Equal(t, int32(30), doc.GetInt32Default("age", 0))
	_, ok := doc.Get("Hidden")
	require.False(t, ok)

	var dst bridgePerson
	require.NoError(t, UnmarshalGo(DocumentValue(doc), &dst))
	require.Equal(t, "ada", dst.Name)
	require.Equal(t, int32(30), dst.Age)
	require.Equal(t, []string{"x", "y"}, dst.Tags)
}

func TestMarshalGoOmitEmpty(t *testing.T) {
	doc, err := MarshalGoDocument(bridgePerson{Name: "bo"})
	require.NoError(t, err)
	_, ok := doc.Get("age")
	require.False(t, ok)
}

func TestMarshalGoMap(t *testing.T) {
	src := map[string]int32{"a": 1, "b": 2}
	doc, err := MarshalGoDocument(src)
	require.NoError(t, err)
	require.Equal(t, int32(1), doc.GetInt32Default("a", 0))

	dst := map[string]int32{}
	require.NoError(t, UnmarshalGo(DocumentValue(doc), &dst))
	require.Equal(t, src, dst)
}
