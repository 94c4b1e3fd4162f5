package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor provides framed S2 compression. The reader also accepts
// framed Snappy streams.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data into an S2 stream.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("s2: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("s2: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a framed S2 or Snappy stream.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := readAll(s2.NewReader(bytes.NewReader(data)), len(data)*expansionHint)
	if err != nil {
		return nil, decompressionError("s2", err)
	}

	return decompressed, nil
}
