package compress

import (
	"bytes"
	"io"

	"github.com/arloliu/clpir/errs"
)

// expansionHint is the initial output size guess, as a multiple of the input,
// for streaming decompressors that do not record the decompressed size.
const expansionHint = 4

// readAll drains r into a fresh buffer, failing once more than
// MaxDecompressedSize bytes have been produced.
func readAll(r io.Reader, sizeHint int) ([]byte, error) {
	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(sizeHint)
	}

	n, err := io.Copy(&buf, io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if n > MaxDecompressedSize {
		return nil, errs.ErrDecompressedSizeLimitReached
	}

	return buf.Bytes(), nil
}
