package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// GzipCompressor provides gzip (DEFLATE) compression.
type GzipCompressor struct {
	name string
}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a gzip compressor that writes no file name.
//
// Streams without a file name start with the tar.gz magic number.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// NewNamedGzipCompressor creates a gzip compressor that records name in the
// header. Such streams start with the gz magic number (FLG.FNAME set).
func NewNamedGzipCompressor(name string) GzipCompressor {
	return GzipCompressor{name: name}
}

// Compress compresses the input data into a single gzip member.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = c.name
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses all gzip members in data.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, decompressionError("gzip", err)
	}
	defer r.Close()

	decompressed, err := readAll(r, len(data)*expansionHint)
	if err != nil {
		return nil, decompressionError("gzip", err)
	}

	return decompressed, nil
}
