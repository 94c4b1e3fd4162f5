package compress

import (
	"fmt"

	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/format"
)

// Compressor compresses a complete buffer in one call.
//
// Compression is not needed to read IR streams; it exists so that tests,
// demos and tools can produce every container the decoder accepts.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor turns a complete compressed buffer into the complete
// decompressed buffer.
//
// Example:
//
//	decompressor := NewZstdCompressor()
//	irStream, err := decompressor.Decompress(compressedFile)
//	if err != nil {
//	    return fmt.Errorf("decompression failed: %w", err)
//	}
//
// Thread Safety: all built-in implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns an error wrapping errs.ErrDecompression if the input is
	//     corrupted, truncated, or was produced by another algorithm
	//   - Returns an error wrapping errs.ErrDecompressedSizeLimitReached if
	//     the output would exceed MaxDecompressedSize
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - An empty input yields a nil output and no error
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// MaxDecompressedSize bounds the output of the streaming decompressors
// (XZ, gzip, LZ4, S2 and archive entries).
const MaxDecompressedSize = 4 << 30 // 4GiB

// Stats describes a single decompression.
type Stats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// CompressedSize is the size of the input
	CompressedSize int64

	// DecompressedSize is the size of the output
	DecompressedSize int64

	// DecompressionTimeNs is the wall time spent decompressing
	DecompressionTimeNs int64
}

// CompressionRatio returns the compression ratio (compressed size / decompressed size).
//
// Returns:
//   - float64: Compression ratio (0.0 if the decompressed size is zero)
func (s Stats) CompressionRatio() float64 {
	if s.DecompressedSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.DecompressedSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionXZ:   NewXZCompressor(),
	format.CompressionGzip: NewGzipCompressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionS2:   NewS2Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompressionType, compressionType)
}

func decompressionError(algorithm string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrDecompression, algorithm, err)
}
