package ir

import (
	"testing"

	"github.com/arloliu/clpir/bytestream"
	"github.com/stretchr/testify/require"
)

const testReferenceTimestamp = 1000

func testMetadata() map[string]any {
	return map[string]any{
		MetadataVersionKey:            ProtocolVersion,
		MetadataReferenceTimestampKey: "1000",
		MetadataTimeZoneIDKey:         "America/Toronto",
		MetadataTimestampPatternKey:   "%Y-%m-%d %H:%M:%S,%3",
	}
}

// newStream returns a writer with the magic number and the given metadata
// already written.
func newStream(t *testing.T, md map[string]any) *Writer {
	t.Helper()

	w := NewWriter()
	w.WriteMagic()
	require.NoError(t, w.WriteMetadata(md))

	return w
}

func openDecoder(t *testing.T, w *Writer, opts ...DecoderOption) (*Decoder, *bytestream.Reader) {
	t.Helper()

	r := bytestream.NewReader(w.Bytes())
	d, err := NewDecoder(r, &TokenSettings{}, opts...)
	require.NoError(t, err)

	return d, r
}
