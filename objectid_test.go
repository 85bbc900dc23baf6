package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectIdByteRoundTrip(t *testing.T) {
	oid := NewObjectId()
	back, err := ObjectIdFromBytes(oid.Bytes())
	require.NoError(t, err)
	require.Equal(t, oid, back)

	hexBack, err := ObjectIdFromHex(oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid, hexBack)
	require.Len(t, oid.Hex(), 24)
}

func TestObjectIdTimestamp(t *testing.T) {
	id, err := ObjectIdFromBytes([]byte{0x51, 0x06, 0xFC, 0x9A, 0xBC, 0x82, 0x37, 0x55, 0x81, 0x36, 0x4D, 0x28})
	require.NoError(t, err)
	require.Equal(t, uint32(0x5106FC9A), id.Timestamp())
}

func TestObjectIdMonotonic(t *testing.T) {
	a := NewObjectId()
	b := NewObjectId()
	require.True(t, CompareObjectId(a, b) < 0)
}

func TestObjectIdFromBytesWrongLength(t *testing.T) {
	_, err := ObjectIdFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
