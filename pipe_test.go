package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeBinaryToTree(t *testing.T) {
	doc := sampleDocument()
	buf, err := Marshal(doc)
	require.NoError(t, err)

	r := NewBinaryReader(buf)
	w := NewDocumentWriter()
	require.NoError(t, Pipe(w, r))
	require.True(t, doc.Equal(w.Result()))
}

func TestPipeTreeToBinary(t *testing.T) {
	doc := sampleDocument()

	r := NewDocumentReader(doc)
	w := NewBinaryWriter()
	require.NoError(t, Pipe(w, r))

	back, err := Unmarshal(w.Bytes())
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestPipeTreeToTree(t *testing.T) {
	doc := sampleDocument()

	r := NewDocumentReader(doc)
	w := NewDocumentWriter()
	require.NoError(t, Pipe(w, r))
	require.True(t, doc.Equal(w.Result()))
	require.False(t, doc == w.Result())
}

func TestDocumentWriterDepthLimit(t *testing.T) {
	w := NewDocumentWriterDepth(2)
	require.NoError(t, w.WriteStartDocument())
	require.NoError(t, w.WriteName("a"))
	require.NoError(t, w.WriteStartDocument())
	require.NoError(t, w.WriteName("b"))
	err := w.WriteStartDocument()
	require.Error(t, err)
}

func TestBinaryWriterDepthLimit(t *testing.T) {
	w := NewBinaryWriterDepth(2)
	require.NoError(t, w.WriteStartDocument())
	require.NoError(t, w.WriteName("a"))
	require.NoError(t, w.WriteStartDocument())
	require.NoError(t, w.WriteName("b"))
	err := w.WriteStartDocument()
	require.Error(t, err)
}

func TestCStringRejectsEmbeddedNul(t *testing.T) {
	w := NewBinaryWriter()
	require.NoError(t, w.WriteStartDocument())
	require.NoError(t, w.WriteName("bad\x00name"))
	err := w.WriteInt32(1)
	require.Error(t, err)
}
