package columncodec

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoderPool and zstdDecoderPool reuse codec state across calls, the
// same pattern mebo's zstd_pure.go uses: klauspost/compress/zstd documents
// that its encoders/decoders are meant to be kept warm and reused rather
// than built per call.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("columncodec: failed to create zstd encoder: %v", err))
		}
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("columncodec: failed to create zstd decoder: %v", err))
		}
		return dec
	},
}

// Zstd is a Codec backed by klauspost/compress/zstd, a pure-Go
// implementation that needs no cgo.
type Zstd struct{}

var _ Codec = Zstd{}

func (Zstd) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}
