package compress

import (
	"bytes"
	"fmt"

	"github.com/ulikunitz/xz"
)

// XZCompressor provides LZMA2 compression in the XZ container.
//
// Decompression treats the input as one finite stream, filters it through a
// streaming XZ reader and materializes the complete output.
type XZCompressor struct{}

var _ Codec = (*XZCompressor)(nil)

// NewXZCompressor creates a new XZ compressor.
func NewXZCompressor() XZCompressor {
	return XZCompressor{}
}

// Compress compresses the input data into a single XZ stream.
func (c XZCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz: create writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses one or more concatenated XZ streams.
func (c XZCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, decompressionError("xz", err)
	}

	decompressed, err := readAll(r, len(data)*expansionHint)
	if err != nil {
		return nil, decompressionError("xz", err)
	}

	return decompressed, nil
}
