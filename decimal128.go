// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"strconv"
	"strings"

	"github.com/nilsbr/bson/internal/uint128"
)

// Decimal128 holds an IEEE 754-2008 decimal128 value in its BID (Binary
// Integer Decimal) encoding as two 64-bit words, High and Low; on the
// wire Low is written first.
// Equality is bit-exact, not numeric — "1.0" and "1.00" parse to different
// bit patterns and are therefore != even though they denote the same number.
type Decimal128 struct {
	High uint64
	Low  uint64
}

// NewDecimal128 wraps a raw (high, low) bit pattern, as read off the wire.
func NewDecimal128(high, low uint64) Decimal128 {
	return Decimal128{High: high, Low: low}
}

const (
	decMaxExp = 6111
	decMinExp = -6176
	decBias   = -decMinExp // 6176, chosen so the all-zero bit pattern is exponent==decMinExp, significand==0.
)

var (
	// PositiveInfinity is the BSON Decimal128 +Infinity value.
	PositiveInfinity = Decimal128{High: 0x1E << 58}
	// NegativeInfinity is the BSON Decimal128 -Infinity value.
	NegativeInfinity = Decimal128{High: 0x3E << 58}
	// NaN is the BSON Decimal128 quiet-NaN value.
	NaN = Decimal128{High: 0x1F << 58}
	// NegativeNaN is a quiet-NaN with its sign bit set; NaN still equals
	// NegativeNaN under BSON's bit-exact equality only if the bits match,
	// which they don't — they're kept distinct intentionally.
	NegativeNaN = Decimal128{High: 0x3F << 58}
	// PositiveZero is the canonical encoding of 0 at exponent 0.
	PositiveZero = Decimal128{High: uint64(decBias) << 49}
	// NegativeZero is the canonical encoding of -0 at exponent 0.
	NegativeZero = Decimal128{High: uint64(decBias)<<49 | 1<<63}
)

// IsNaN reports whether d is a (quiet) NaN, regardless of sign.
func (d Decimal128) IsNaN() bool {
	return d.High&0x7C00000000000000 == 0x7C00000000000000
}

// IsInfinite reports whether d is +/-Infinity.
func (d Decimal128) IsInfinite() bool {
	return d.High&0x7C00000000000000 == 0x7800000000000000
}

// Sign reports whether d's sign bit is set.
func (d Decimal128) Sign() bool {
	return d.High>>63&1 == 1
}

// decBits decodes the BID layout described in spec.md §3.2.
type decBits struct {
	sign         bool
	exponent     int
	significand  uint128.Uint128
	invalidForm  bool // second form: significand is forced to zero
}

func (d Decimal128) decode() decBits {
	sign := d.Sign()
	if d.High&0x6000000000000000 == 0x6000000000000000 {
		// Second form: exponent occupies bits 60..47, significand is the
		// invalid-significand (always zero) representation.
		biased := int(d.High>>47) & 0x3FFF
		return decBits{sign: sign, exponent: biased - decBias, invalidForm: true}
	}
	// First form: exponent occupies bits 62..49, 113-bit significand is
	// the low 49 bits of the high word concatenated with all of low.
	biased := int(d.High>>49) & 0x3FFF
	sig := uint128.Uint128{Hi: d.High & ((1 << 49) - 1), Lo: d.Low}
	return decBits{sign: sign, exponent: biased - decBias, significand: sig}
}

func encodeBits(sign bool, exponent int, sig uint128.Uint128) Decimal128 {
	biased := uint64(exponent + decBias)
	high := biased&0x3FFF<<49 | sig.Hi&((1<<49)-1)
	if sign {
		high |= 1 << 63
	}
	return Decimal128{High: high, Low: sig.Lo}
}

// String renders d per spec.md §4.B "Format".
func (d Decimal128) String() string {
	switch {
	case d.IsNaN():
		return "NaN"
	case d.IsInfinite():
		if d.Sign() {
			return "-Infinity"
		}
		return "Infinity"
	}

	b := d.decode()
	sign := ""
	if b.sign {
		sign = "-"
	}

	if b.invalidForm {
		if b.exponent == 0 {
			return sign + "0"
		}
		if b.exponent > 0 {
			return sign + "0E+" + strconv.Itoa(b.exponent)
		}
		return sign + "0E" + strconv.Itoa(b.exponent)
	}

	coeff := b.significand.Format()
	adjusted := b.exponent + len(coeff) - 1

	if b.exponent > 0 || adjusted < -6 {
		var out strings.Builder
		out.WriteString(sign)
		out.WriteByte(coeff[0])
		if len(coeff) > 1 {
			out.WriteByte('.')
			out.WriteString(coeff[1:])
		}
		out.WriteByte('E')
		if adjusted >= 0 {
			out.WriteByte('+')
		}
		out.WriteString(strconv.Itoa(adjusted))
		return out.String()
	}

	if b.exponent == 0 {
		return sign + coeff
	}

	absExp := -b.exponent
	padded := coeff
	for len(padded) < absExp+1 {
		padded = "0" + padded
	}
	intPart := padded[:len(padded)-absExp]
	fracPart := padded[len(padded)-absExp:]
	return sign + intPart + "." + fracPart
}

// ParseDecimal128 parses the grammar in spec.md §4.B, including the
// clamp-or-round rules that keep an out-of-range exponent in bounds by
// shifting trailing (always exact) zeroes between the significand and the
// exponent, failing with NumberFormatError only when a non-zero digit
// would be lost or the value simply cannot fit.
func ParseDecimal128(s string) (Decimal128, error) {
	orig := s
	if s == "" {
		return Decimal128{}, numberFormatErr(orig, "empty string")
	}

	neg := false
	rest := s
	if rest[0] == '+' || rest[0] == '-' {
		neg = rest[0] == '-'
		rest = rest[1:]
	}

	switch strings.ToLower(rest) {
	case "nan":
		if neg {
			return NegativeNaN, nil
		}
		return NaN, nil
	case "inf", "infinity":
		if neg {
			return NegativeInfinity, nil
		}
		return PositiveInfinity, nil
	}

	significand, exponent, err := scanDecimal(rest)
	if err != nil {
		return Decimal128{}, numberFormatErr(orig, "%v", err)
	}

	significand = strings.TrimLeft(significand, "0")
	if significand == "" {
		significand = "0"
	}

	if exponent > decMaxExp {
		if significand == "0" {
			exponent = decMaxExp
		} else {
			for exponent > decMaxExp && len(significand) < 34 {
				significand += "0"
				exponent--
			}
			if exponent > decMaxExp {
				return Decimal128{}, numberFormatErr(orig, "exponent too large")
			}
		}
	}

	if exponent < decMinExp {
		if significand == "0" {
			exponent = decMinExp
		} else {
			for exponent < decMinExp && strings.HasSuffix(significand, "0") {
				significand = significand[:len(significand)-1]
				exponent++
			}
			if significand == "" {
				significand = "0"
			}
			if exponent < decMinExp {
				if significand == "0" {
					exponent = decMinExp
				} else {
					return Decimal128{}, numberFormatErr(orig, "exponent too small, non-zero digits would be lost")
				}
			}
		}
	}

	if len(significand) > 34 {
		for len(significand) > 34 && strings.HasSuffix(significand, "0") {
			significand = significand[:len(significand)-1]
			exponent++
		}
		if len(significand) > 34 {
			return Decimal128{}, numberFormatErr(orig, "significand has more than 34 significant digits")
		}
	}

	if exponent < decMinExp || exponent > decMaxExp {
		return Decimal128{}, numberFormatErr(orig, "exponent out of range after rounding")
	}

	sig, err := uint128.Parse(significand)
	if err != nil {
		return Decimal128{}, numberFormatErr(orig, "significand out of range: %v", err)
	}

	return encodeBits(neg, exponent, sig), nil
}

// scanDecimal tokenizes the non-special-value portion of the grammar:
// ( digits '.' digits? | '.' digits | digits ) ( [eE] sign? digits )?
// It returns the significand (decimal point removed) and the exponent
// contributed by the fractional digits and any explicit [eE] suffix.
func scanDecimal(rest string) (significand string, exponent int, err error) {
	j := 0
	intStart := j
	for j < len(rest) && isASCIIDigit(rest[j]) {
		j++
	}
	intPart := rest[intStart:j]

	fracPart := ""
	if j < len(rest) && rest[j] == '.' {
		j++
		fracStart := j
		for j < len(rest) && isASCIIDigit(rest[j]) {
			j++
		}
		fracPart = rest[fracStart:j]
	}

	if intPart == "" && fracPart == "" {
		return "", 0, numberFormatErr(rest, "no digits")
	}

	expVal := 0
	if j < len(rest) && (rest[j] == 'e' || rest[j] == 'E') {
		j++
		expNeg := false
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			expNeg = rest[j] == '-'
			j++
		}
		expStart := j
		for j < len(rest) && isASCIIDigit(rest[j]) {
			j++
		}
		if expStart == j {
			return "", 0, numberFormatErr(rest, "malformed exponent")
		}
		v, convErr := strconv.Atoi(rest[expStart:j])
		if convErr != nil {
			return "", 0, numberFormatErr(rest, "malformed exponent")
		}
		if expNeg {
			v = -v
		}
		expVal = v
	}

	if j != len(rest) {
		return "", 0, numberFormatErr(rest, "unexpected trailing characters")
	}

	return intPart + fracPart, expVal - len(fracPart), nil
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
