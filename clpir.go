// Package clpir opens CLP IR log streams, whatever container they arrive in.
//
// A CLP IR stream is a compact encoding of log events: each message is split
// into a logtype (the static template) and its variables, and timestamps are
// stored as deltas from a reference timestamp. Streams are usually shipped
// compressed, so Open first sniffs the container by its magic number,
// decompresses it and then hands the payload to the IR protocol decoder.
//
// # Supported containers
//
//   - clp_ir: uncompressed IR stream
//   - zst: Zstandard frame
//   - gz, tar_gz: gzip stream, optionally holding a tar archive
//   - zip: zip archive
//   - xz, lz4, s2: XZ, LZ4 frame and S2 framed streams
//
// Archives are reduced to their first regular file.
//
// # Basic Usage
//
//	stream, err := clpir.Open(ctx, data)
//	if err != nil {
//	    return err
//	}
//	events := stream.Events()
//	defer events.Close()
//	for ev, err := range events.All() {
//	    if err != nil {
//	        return err
//	    }
//	    msg, _ := ev.Message()
//	    fmt.Println(ev.Timestamp, msg)
//	}
//
// # Package Structure
//
// This package wires the lower-level packages together. Use them directly
// for finer control:
//   - format: file type detection
//   - compress: codecs and container unwrapping
//   - ir: the protocol decoder
package clpir

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arloliu/clpir/bytestream"
	"github.com/arloliu/clpir/compress"
	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/options"
	"github.com/arloliu/clpir/ir"
)

// Stream is an opened IR stream positioned at its first record.
//
// Note: Stream is NOT thread-safe.
type Stream struct {
	decoder     *ir.Decoder
	reader      *bytestream.Reader
	tokens      ir.TokenDecoder
	container   format.FileType
	stats       compress.Stats
	recordStart int
}

// Open detects the container of data, decompresses it and decodes the IR
// stream header.
//
// Open blocks until decompression completes or ctx is done.
//
// Parameters:
//   - ctx: bounds the decompression wait
//   - data: the raw file contents
//   - opts: optional configuration (WithLogger, WithSupportedVersion, WithTokenDecoder)
//
// Returns:
//   - *Stream: the opened stream
//   - error: errs.ErrDecompression, errs.ErrFormat or errs.ErrVersion kinds,
//     or ctx.Err()
func Open(ctx context.Context, data []byte, opts ...Option) (*Stream, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	result, err := compress.DecompressFile(ctx, data)
	if err != nil {
		cfg.logger.Warn("decompression failed",
			slog.String("container", result.Outer.String()),
			slog.Any("error", err),
		)

		return nil, err
	}

	cfg.logger.Debug("container unwrapped",
		slog.String("container", result.Outer.String()),
		slog.String("payload", result.Inner.String()),
		slog.Int64("compressed_bytes", result.Stats.CompressedSize),
		slog.Int64("decompressed_bytes", result.Stats.DecompressedSize),
	)

	// Anything but an IR payload still goes to the decoder, which reports
	// the precise encoding error.
	reader := bytestream.NewReader(result.Data)
	decoder, err := ir.NewDecoder(reader, cfg.tokens,
		ir.WithSupportedVersion(cfg.supportedVersion),
		ir.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", result.Outer, err)
	}

	return &Stream{
		decoder:     decoder,
		reader:      reader,
		tokens:      cfg.tokens,
		container:   result.Outer,
		stats:       result.Stats,
		recordStart: reader.Pos(),
	}, nil
}

// Decoder returns the underlying protocol decoder.
func (s *Stream) Decoder() *ir.Decoder {
	return s.decoder
}

// Metadata returns the stream header.
func (s *Stream) Metadata() ir.Metadata {
	return s.decoder.Metadata()
}

// Container returns the file type detected on the raw input.
func (s *Stream) Container() format.FileType {
	return s.container
}

// Stats returns the decompression statistics.
func (s *Stream) Stats() compress.Stats {
	return s.stats
}

// TokenDecoder returns the token decoder that received the stream's time
// zone and timestamp pattern.
func (s *Stream) TokenDecoder() ir.TokenDecoder {
	return s.tokens
}

// Events returns a reader over the stream's events. The caller should Close it.
func (s *Stream) Events() *ir.EventReader {
	return ir.NewEventReader(s.decoder)
}

// Rewind moves the stream back to its first record and resets the running
// timestamp, so events can be read again.
func (s *Stream) Rewind() error {
	if err := s.reader.Seek(s.recordStart); err != nil {
		return err
	}
	s.decoder.Reset()

	return nil
}
