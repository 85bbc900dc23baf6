package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegacyOldBinaryRoundTrip(t *testing.T) {
	doc := NewDocument().Append("b", Value{typ: TypeBinary, raw: Binary{Subtype: SubtypeOldBinary, Data: []byte{9, 8, 7}}})
	buf, err := Marshal(doc)
	require.NoError(t, err)

	back, err := Unmarshal(buf)
	require.NoError(t, err)

	bv, ok := back.Get("b")
	require.True(t, ok)
	bin, err := bv.AsBinary()
	require.NoError(t, err)
	require.Equal(t, SubtypeOldBinary, bin.Subtype)
	require.Equal(t, []byte{9, 8, 7}, bin.Data)
}

func TestTimestampPackedRoundTrip(t *testing.T) {
	ts := Timestamp{Seconds: 123456, Increment: 7}
	packed := ts.Packed()
	back := TimestampFromPacked(packed)
	require.Equal(t, ts, back)
}

func TestDecimal128ParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1.5", "-42", "3.14159265358979", "0.1"} {
		d, err := ParseDecimal128(s)
		require.NoError(t, err, s)
		require.Equal(t, s, d.String(), "round trip for %q", s)
	}
}
