package compress

// ZstdCompressor provides Zstandard compression.
//
// CLP IR streams are conventionally shipped Zstd-compressed, so this is the
// hot path of the pipeline. Decoders are pooled process-wide and reused
// across calls; the whole input is decompressed in a single call.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	codec := NewZstdCompressor()
//	irStream, err := codec.Decompress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
