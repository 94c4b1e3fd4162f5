package compress

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/clpir/errs"
	"github.com/klauspost/compress/zip"
)

const (
	tarMagicOffset = 257
	tarMagic       = "ustar"
)

// IsTar reports whether data looks like a POSIX/GNU tar archive.
func IsTar(data []byte) bool {
	end := tarMagicOffset + len(tarMagic)
	return len(data) >= end && string(data[tarMagicOffset:end]) == tarMagic
}

// ExtractFirstTarEntry returns the contents of the first regular file in a
// tar archive.
func ExtractFirstTarEntry(data []byte) ([]byte, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, errs.ErrEmptyArchive
		}
		if err != nil {
			return nil, decompressionError("tar", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		content, err := readAll(tr, int(min(hdr.Size, int64(len(data)))))
		if err != nil {
			return nil, decompressionError("tar", fmt.Errorf("%s: %w", hdr.Name, err))
		}

		return content, nil
	}
}

// ExtractFirstZipEntry returns the decompressed contents of the first
// regular file in a zip archive.
func ExtractFirstZipEntry(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, decompressionError("zip", err)
	}

	for _, file := range zr.File {
		if !file.Mode().IsRegular() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, decompressionError("zip", fmt.Errorf("%s: %w", file.Name, err))
		}
		content, err := readAll(rc, int(min(file.UncompressedSize64, uint64(len(data)*expansionHint))))
		rc.Close()
		if err != nil {
			return nil, decompressionError("zip", fmt.Errorf("%s: %w", file.Name, err))
		}

		return content, nil
	}

	return nil, errs.ErrEmptyArchive
}
