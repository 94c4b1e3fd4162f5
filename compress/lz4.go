package compress

import (
	"bytes"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// LZ4Compressor provides LZ4 frame compression.
//
// The frame format is used rather than raw blocks because frames carry a
// magic number and can be recognized by format.Detect.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data into a single LZ4 frame.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses an LZ4 frame.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := readAll(lz4.NewReader(bytes.NewReader(data)), len(data)*expansionHint)
	if err != nil {
		return nil, decompressionError("lz4", err)
	}

	return decompressed, nil
}
