package columncodec

import "github.com/pierrec/lz4/v4"

// LZ4 is a Codec backed by pierrec/lz4/v4, favoring decompression speed
// over ratio — adapted from mebo's compress/lz4.go.
type LZ4 struct{}

var _ Codec = LZ4{}

func (LZ4) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var c lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible input: lz4 signals this by returning n==0.
		return dst[:0], nil
	}
	return dst[:n], nil
}

// Decompress requires the caller to know the decompressed size is at most
// maxDecompressedSize; columncodec callers that need an arbitrary size
// cap should prefer Zstd, whose frames are self-describing.
const maxDecompressedSize = 64 << 20

func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, maxDecompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
