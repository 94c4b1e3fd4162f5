// Package compress normalizes compressed log containers into a single
// decompressed byte buffer.
//
// # Overview
//
// A CLP IR stream is rarely stored bare. It is usually wrapped in Zstandard,
// and log bundles also arrive as XZ, gzip, tar.gz, zip, LZ4 or S2 files. This
// package turns any of those into the raw bytes that the ir package decodes:
//
//	result, err := compress.DecompressFile(ctx, fileBytes)
//	if err != nil {
//	    return err
//	}
//	if result.Inner != format.FileTypeCLPIR {
//	    return fmt.Errorf("not an IR stream: %s", result.Inner)
//	}
//
// # Architecture
//
// Each algorithm is a Codec:
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// GetCodec returns the built-in codec for a format.CompressionType:
//   - None: pass-through
//   - Zstd: klauspost/compress/zstd with pooled decoders (or libzstd through
//     valyala/gozstd when built with cgo and the gozstd tag)
//   - XZ: ulikunitz/xz
//   - Gzip: klauspost/compress/gzip
//   - LZ4: pierrec/lz4 frames
//   - S2: klauspost/compress/s2 framed streams (Snappy framed streams too)
//
// # Asynchronous Decompression
//
// Decompress and DecompressFile run the codec on a separate goroutine and
// block until it completes or the context is done. Output is never streamed:
// callers receive the whole buffer or an error. Nothing is retried.
//
// # Error Handling
//
// Every decompression failure wraps errs.ErrDecompression:
//
//	if errors.Is(err, errs.ErrDecompression) {
//	    // corrupt, truncated or mislabelled input
//	}
//
// # Thread Safety
//
// All codecs are safe for concurrent use. Independent streams may be
// decompressed in parallel.
package compress
