// Package errs defines the error kinds returned by clpir.
//
// Errors form a small tree: every specific error unwraps to exactly one kind,
// so callers can match either the precise cause or the whole family:
//
//	errors.Is(err, errs.ErrUnknownTag) // a specific malformed tag
//	errors.Is(err, errs.ErrFormat)     // any malformed stream
//	errors.Is(err, errs.ErrVersion)    // too new or too old
package errs

import "errors"

// Error kinds.
var (
	// ErrFormat is the kind of every malformed-stream error.
	ErrFormat = errors.New("malformed stream")
	// ErrVersion is the kind of every protocol version incompatibility.
	ErrVersion = errors.New("incompatible protocol version")
	// ErrDecompression is the kind of every decompression failure.
	ErrDecompression = errors.New("decompression failed")
)

// Format errors.
var (
	ErrInvalidEncoding              = newKindError(ErrFormat, "stream doesn't use the four-byte encoding")
	ErrUnsupportedEncoding          = newKindError(ErrFormat, "eight-byte encoding is not supported")
	ErrUnsupportedMetadataEncoding  = newKindError(ErrFormat, "unsupported metadata encoding tag")
	ErrUnsupportedLengthEncoding    = newKindError(ErrFormat, "unsupported encoding for length")
	ErrInvalidMetadata              = newKindError(ErrFormat, "invalid metadata")
	ErrInvalidVersion               = newKindError(ErrFormat, "invalid protocol version")
	ErrInvalidAttributeTable        = newKindError(ErrFormat, "invalid attribute table")
	ErrUnknownTag                   = newKindError(ErrFormat, "unknown tag")
	ErrNegativeLength               = newKindError(ErrFormat, "negative length")
	ErrTruncated                    = newKindError(ErrFormat, "unexpected end of stream")
	ErrUnsupportedCompressionType   = newKindError(ErrDecompression, "unsupported compression type")
	ErrEmptyArchive                 = newKindError(ErrDecompression, "archive contains no regular file")
	ErrDecompressedSizeLimitReached = newKindError(ErrDecompression, "decompressed size exceeds limit")
)

// Version errors.
var (
	ErrTooNew = newKindError(ErrVersion, "input protocol version is too new")
	ErrTooOld = newKindError(ErrVersion, "input protocol version is too old")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}
