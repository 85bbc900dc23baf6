package uint128

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		"0",
		"1",
		"9999999999999999999999999999999999", // 34 nines
		"340282366920938463463374607431768211455", // 2^128-1
		"123456789012345678901234567890",
	}
	for _, c := range cases {
		v, err := Parse(c)
		require.NoError(t, err)
		require.Equal(t, c, v.Format())
	}
}

func TestParseOverflow(t *testing.T) {
	_, err := Parse("340282366920938463463374607431768211456") // 2^128
	require.ErrorIs(t, err, ErrOverflow)
}

func TestAddMultiplyDivide(t *testing.T) {
	a, err := Parse("18446744073709551615") // 2^64-1
	require.NoError(t, err)
	sum := Add(a, FromUint64(1))
	require.Equal(t, "18446744073709551616", sum.Format())

	prod, carry := MultiplyByU32(FromUint64(1000000000), 1000000000)
	require.Zero(t, carry)
	require.Equal(t, "1000000000000000000", prod.Format())

	q, r := DivideByU32(prod, 1000000000)
	require.Equal(t, uint32(0), r)
	require.Equal(t, "1000000000", q.Format())
}

func TestCmp(t *testing.T) {
	a := FromUint64(5)
	b := FromUint64(10)
	require.Equal(t, -1, Cmp(a, b))
	require.Equal(t, 1, Cmp(b, a))
	require.Equal(t, 0, Cmp(a, a))
}
