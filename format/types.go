package format

import "fmt"

type (
	FileType        uint8
	CompressionType uint8
)

const (
	FileTypeUnknown FileType = 0x0 // FileTypeUnknown represents an unrecognized container.
	FileTypeCLPIR   FileType = 0x1 // FileTypeCLPIR represents a CLP IR stream (visible after Zstd decompression).
	FileTypeGZ      FileType = 0x2 // FileTypeGZ represents a gzip stream carrying a single named file.
	FileTypeTarGZ   FileType = 0x3 // FileTypeTarGZ represents a gzip stream without FLG bits, typically a tarball.
	FileTypeZIP     FileType = 0x4 // FileTypeZIP represents a zip archive.
	FileTypeZST     FileType = 0x5 // FileTypeZST represents a Zstandard frame.
	FileTypeXZ      FileType = 0x6 // FileTypeXZ represents an XZ (LZMA2) stream.
	FileTypeLZ4     FileType = 0x7 // FileTypeLZ4 represents an LZ4 frame.
	FileTypeS2      FileType = 0x8 // FileTypeS2 represents a framed Snappy/S2 stream.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionXZ   CompressionType = 0x3 // CompressionXZ represents LZMA/XZ compression.
	CompressionGzip CompressionType = 0x4 // CompressionGzip represents gzip (DEFLATE) compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 frame compression.
	CompressionS2   CompressionType = 0x6 // CompressionS2 represents framed S2 compression.
)

// String returns the lower-case file type name.
func (f FileType) String() string {
	switch f {
	case FileTypeUnknown:
		return "unknown"
	case FileTypeCLPIR:
		return "clp_ir"
	case FileTypeGZ:
		return "gz"
	case FileTypeTarGZ:
		return "tar_gz"
	case FileTypeZIP:
		return "zip"
	case FileTypeZST:
		return "zst"
	case FileTypeXZ:
		return "xz"
	case FileTypeLZ4:
		return "lz4"
	case FileTypeS2:
		return "s2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// Compression returns the compression algorithm that unwraps the container,
// or CompressionNone when the container is not a plain compressed stream.
//
// Archives (zip) and already-decoded streams (CLP IR, unknown) map to
// CompressionNone; tar.gz maps to gzip since the tarball sits inside a gzip stream.
func (f FileType) Compression() CompressionType {
	switch f { //nolint: exhaustive
	case FileTypeZST:
		return CompressionZstd
	case FileTypeGZ, FileTypeTarGZ:
		return CompressionGzip
	case FileTypeXZ:
		return CompressionXZ
	case FileTypeLZ4:
		return CompressionLZ4
	case FileTypeS2:
		return CompressionS2
	default:
		return CompressionNone
	}
}

// String returns the compression algorithm name.
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionXZ:
		return "XZ"
	case CompressionGzip:
		return "Gzip"
	case CompressionLZ4:
		return "LZ4"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a compression type from its case-sensitive
// lower-case name, as used on command lines.
func ParseCompressionType(name string) (CompressionType, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "xz", "lzma":
		return CompressionXZ, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "lz4":
		return CompressionLZ4, nil
	case "s2":
		return CompressionS2, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", name)
	}
}
