// Package columncodec provides compression codecs for the payload of a
// BSON Binary value whose subtype is Column (spec.md §3.1 subtype enum,
// tag 0x07): a convenience layer document/encoder callers can opt into,
// not a new wire encoding. Grounded on arloliu-mebo's compress package
// (codec.go/zstd_pure.go/lz4.go), adapted from mebo's time-series payloads
// to arbitrary BSON Binary column payloads.
package columncodec

// Codec compresses and decompresses a column's raw bytes.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
