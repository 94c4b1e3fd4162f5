package format

// MagicNumberSize is the length of every magic-number prefix in the table.
const MagicNumberSize = 4

// magicNumbers maps each known container to its 4-byte prefix.
//
// No two entries share a prefix, so detection order does not matter.
var magicNumbers = map[FileType][MagicNumberSize]byte{
	// A CLP IR stream is usually Zstd-compressed, so this prefix only shows
	// up after decompression. It is the four-byte encoding magic number.
	FileTypeCLPIR: {0xfd, 0x2f, 0xb5, 0x29},

	// https://datatracker.ietf.org/doc/html/rfc8878#section-3.1.1
	FileTypeZST: {0x28, 0xb5, 0x2f, 0xfd},

	// https://datatracker.ietf.org/doc/html/rfc1952#page-6
	// ID1, ID2, CM=DEFLATE, FLG=0 (no file name, usually a tarball).
	FileTypeTarGZ: {0x1f, 0x8b, 0x08, 0x00},

	// Same as above with FLG.FNAME set: a single named file.
	FileTypeGZ: {0x1f, 0x8b, 0x08, 0x08},

	// https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT
	FileTypeZIP: {0x50, 0x4b, 0x03, 0x04},

	// https://tukaani.org/xz/xz-file-format.txt (first 4 of 6 header bytes)
	FileTypeXZ: {0xfd, 0x37, 0x7a, 0x58},

	// https://github.com/lz4/lz4/blob/dev/doc/lz4_Frame_format.md
	FileTypeLZ4: {0x04, 0x22, 0x4d, 0x18},

	// Stream identifier chunk shared by framed Snappy and S2.
	FileTypeS2: {0xff, 0x06, 0x00, 0x00},
}

// MagicNumbers returns a copy of the magic-number table.
func MagicNumbers() map[FileType][MagicNumberSize]byte {
	table := make(map[FileType][MagicNumberSize]byte, len(magicNumbers))
	for fileType, magic := range magicNumbers {
		table[fileType] = magic
	}

	return table
}

// MagicNumber returns the 4-byte prefix of the given file type.
func MagicNumber(fileType FileType) ([MagicNumberSize]byte, bool) {
	magic, ok := magicNumbers[fileType]
	return magic, ok
}

// Detect classifies data by its first four bytes.
//
// Detect never fails: inputs shorter than MagicNumberSize and inputs with no
// known prefix are FileTypeUnknown. Callers that decompressed a Zstd container
// must call Detect again on the output to recognize a CLP IR stream.
func Detect(data []byte) FileType {
	if len(data) < MagicNumberSize {
		return FileTypeUnknown
	}

	prefix := [MagicNumberSize]byte(data[:MagicNumberSize])
	for fileType, magic := range magicNumbers {
		if prefix == magic {
			return fileType
		}
	}

	return FileTypeUnknown
}
