package compress

import (
	"context"
	"time"

	"github.com/arloliu/clpir/format"
)

// Result is the outcome of DecompressFile.
type Result struct {
	// Outer is the container detected on the input.
	Outer format.FileType
	// Inner is the type detected on the decompressed output. A Zstd
	// container holding an IR stream reports format.FileTypeCLPIR here.
	Inner format.FileType
	// Data is the fully decompressed payload.
	Data []byte
	// Stats describes the decompression.
	Stats Stats
}

// Decompress decompresses data with the given algorithm off the calling
// goroutine and returns the complete output.
//
// The call blocks until decompression finishes or ctx is done. Cancelling ctx
// only abandons the wait: the background decompression runs to completion and
// its result is discarded. Failures wrap errs.ErrDecompression and are never
// retried.
func Decompress(ctx context.Context, compressionType format.CompressionType, data []byte) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	return run(ctx, func() ([]byte, error) {
		return codec.Decompress(data)
	})
}

// DecompressFile detects the container of data, unwraps it and detects the
// type of the payload.
//
// Containers are unwrapped as follows:
//   - zst, xz, lz4, s2: decompressed with the matching codec
//   - gz: gunzipped
//   - tar_gz: gunzipped; if the result is a tar archive, its first regular file
//   - zip: the first regular file of the archive
//   - clp_ir, unknown: passed through unchanged
func DecompressFile(ctx context.Context, data []byte) (Result, error) {
	outer := format.Detect(data)
	result := Result{
		Outer: outer,
		Stats: Stats{
			Algorithm:      outer.Compression(),
			CompressedSize: int64(len(data)),
		},
	}

	start := time.Now()
	decompressed, err := run(ctx, func() ([]byte, error) {
		return unwrap(outer, data)
	})
	if err != nil {
		return result, err
	}

	result.Data = decompressed
	result.Inner = format.Detect(decompressed)
	result.Stats.DecompressedSize = int64(len(decompressed))
	result.Stats.DecompressionTimeNs = time.Since(start).Nanoseconds()

	return result, nil
}

func unwrap(outer format.FileType, data []byte) ([]byte, error) {
	switch outer { //nolint: exhaustive
	case format.FileTypeZIP:
		return ExtractFirstZipEntry(data)
	case format.FileTypeTarGZ:
		gunzipped, err := NewGzipCompressor().Decompress(data)
		if err != nil {
			return nil, err
		}
		if !IsTar(gunzipped) {
			return gunzipped, nil
		}

		return ExtractFirstTarEntry(gunzipped)
	default:
		codec, err := GetCodec(outer.Compression())
		if err != nil {
			return nil, err
		}

		return codec.Decompress(data)
	}
}

type runResult struct {
	data []byte
	err  error
}

func run(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan runResult, 1)
	go func() {
		data, err := fn()
		done <- runResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}
