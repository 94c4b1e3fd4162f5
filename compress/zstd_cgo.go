//go:build cgo && gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses the input data using the libzstd binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses Zstd-compressed data using the libzstd binding.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, decompressionError("zstd", err)
	}

	return decompressed, nil
}
