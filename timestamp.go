package bson

// Timestamp is the BSON internal Timestamp variant: a 32-bit seconds
// counter and a 32-bit per-second increment, packed on the wire as one
// 64-bit value with seconds in the high half (spec.md §3.1 tag 0x11).
type Timestamp struct {
	Seconds   uint32
	Increment uint32
}

// Packed returns (seconds<<32) | increment, the wire representation.
func (t Timestamp) Packed() uint64 {
	return uint64(t.Seconds)<<32 | uint64(t.Increment)
}

// TimestampFromPacked unpacks the wire representation.
func TimestampFromPacked(v uint64) Timestamp {
	return Timestamp{Seconds: uint32(v >> 32), Increment: uint32(v)}
}
