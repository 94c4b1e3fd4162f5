package ir

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/arloliu/clpir/bytestream"
	"github.com/arloliu/clpir/errs"
	"github.com/stretchr/testify/require"
)

func TestNewDecoder_Header(t *testing.T) {
	w := newStream(t, testMetadata())
	r := bytestream.NewReader(w.Bytes())
	tokens := &TokenSettings{}

	d, err := NewDecoder(r, tokens)
	require.NoError(t, err)
	require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())
	require.Equal(t, ProtocolVersion, d.Metadata().Version)
	require.Equal(t, "America/Toronto", tokens.ZoneID)
	require.Equal(t, "%Y-%m-%d %H:%M:%S,%3", tokens.TimestampPattern)
	require.Nil(t, d.AttributeTable())
	require.Nil(t, d.AttributeNames())
	require.Equal(t, 0, d.NumAttributes())
	require.Equal(t, 0, r.Remaining())
}

func TestNewDecoder_NilTokenDecoder(t *testing.T) {
	w := newStream(t, testMetadata())
	d, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
	require.NoError(t, err)
	require.Equal(t, "America/Toronto", d.Metadata().TimeZoneID)
}

func TestNewDecoder_Encoding(t *testing.T) {
	tests := []struct {
		name    string
		magic   []byte
		wantErr error
	}{
		{"eight byte encoding", []byte{0xfd, 0x2f, 0xb5, 0x30}, errs.ErrUnsupportedEncoding},
		{"zstd frame", []byte{0x28, 0xb5, 0x2f, 0xfd}, errs.ErrInvalidEncoding},
		{"zeros", []byte{0, 0, 0, 0}, errs.ErrInvalidEncoding},
		{"short", []byte{0xfd, 0x2f}, errs.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(bytestream.NewReader(tt.magic), nil)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, errs.ErrFormat)
		})
	}
}

func TestNewDecoder_MetadataFraming(t *testing.T) {
	t.Run("unsupported metadata encoding", func(t *testing.T) {
		w := NewWriter()
		w.WriteMagic()
		w.WriteTag(0x02)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrUnsupportedMetadataEncoding)
	})

	t.Run("unsupported length encoding", func(t *testing.T) {
		w := NewWriter()
		w.WriteMagic()
		w.WriteTag(MetadataEncodingJSON)
		w.WriteTag(0x14)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrUnsupportedLengthEncoding)
	})

	t.Run("negative int length", func(t *testing.T) {
		w := NewWriter()
		w.WriteMagic()
		w.WriteTag(MetadataEncodingJSON)
		w.WriteTag(MetadataLenInt)
		w.buf = append(w.buf, 0xff, 0xff, 0xff, 0xfe)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrNegativeLength)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("truncated metadata", func(t *testing.T) {
		w := NewWriter()
		w.WriteMagic()
		w.WriteTag(MetadataEncodingJSON)
		w.WriteTag(MetadataLenUByte)
		w.buf = append(w.buf, 50, '{', '}')
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := NewWriter()
		w.WriteMagic()
		w.WriteRawMetadata([]byte(`{"VERSION":`))
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrInvalidMetadata)
	})

	t.Run("ushort length", func(t *testing.T) {
		md := testMetadata()
		md["padding"] = strings.Repeat("x", 400)
		w := newStream(t, md)
		require.Equal(t, MetadataLenUShort, w.Bytes()[5])

		d, _ := openDecoder(t, w)
		require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())
	})

	t.Run("int length", func(t *testing.T) {
		md := testMetadata()
		md["padding"] = strings.Repeat("x", math.MaxUint16)
		w := newStream(t, md)
		require.Equal(t, MetadataLenInt, w.Bytes()[5])

		d, _ := openDecoder(t, w)
		require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())
	})
}

func TestNewDecoder_Version(t *testing.T) {
	tests := []struct {
		name      string
		version   any
		supported string
		wantErr   error
	}{
		{"current", ProtocolVersion, "", nil},
		{"legacy", LegacyProtocolVersion, "", nil},
		{"legacy with newer major supported", LegacyProtocolVersion, "v2.0.0", nil},
		{"too new", "v0.0.2", "", errs.ErrTooNew},
		{"too old", "v1.0.0", "v2.0.0", errs.ErrTooOld},
		{"not semver", "0.0.1", "", errs.ErrInvalidVersion},
		{"not a string", 1, "", errs.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := testMetadata()
			md[MetadataVersionKey] = tt.version
			w := newStream(t, md)

			var opts []DecoderOption
			if tt.supported != "" {
				opts = append(opts, WithSupportedVersion(tt.supported))
			}

			_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil, opts...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("version errors are version kind", func(t *testing.T) {
		md := testMetadata()
		md[MetadataVersionKey] = "v9.0.0"
		w := newStream(t, md)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrVersion)
		require.NotErrorIs(t, err, errs.ErrFormat)
	})
}

func TestWithSupportedVersion_Invalid(t *testing.T) {
	w := newStream(t, testMetadata())
	_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil, WithSupportedVersion("latest"))
	require.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := newStream(t, testMetadata())
	_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil, WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, out.String(), "ir stream initialized")
	require.Contains(t, out.String(), "version="+ProtocolVersion)

	_, err = NewDecoder(bytestream.NewReader(w.Bytes()), nil, WithLogger(nil))
	require.NoError(t, err)
}

func TestNewDecoder_AttributeTable(t *testing.T) {
	attrs := []any{
		map[string]any{"name": "level"},
		map[string]any{"name": "tag"},
		map[string]any{"name": "pid"},
	}

	t.Run("built with build version", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = attrs
		d, _ := openDecoder(t, newStream(t, md))

		require.Equal(t, 3, d.NumAttributes())
		require.Equal(t, map[string]int{"level": 0, "tag": 1, "pid": 2}, d.AttributeTable())
		require.Equal(t, []string{"level", "tag", "pid"}, d.AttributeNames())
		require.Equal(t, "14", d.Metadata().BuildVersion)
	})

	t.Run("absent without build version", func(t *testing.T) {
		md := testMetadata()
		md[MetadataAttributeTableKey] = attrs
		d, _ := openDecoder(t, newStream(t, md))

		require.Nil(t, d.AttributeTable())
		require.Equal(t, 0, d.NumAttributes())
		require.Nil(t, d.Metadata().Attributes)
	})

	t.Run("malformed table ignored without build version", func(t *testing.T) {
		for _, table := range []any{"legacy", []any{map[string]any{"id": 1}}} {
			md := testMetadata()
			md[MetadataAttributeTableKey] = table
			d, _ := openDecoder(t, newStream(t, md))

			require.Nil(t, d.AttributeTable())
			require.Nil(t, d.AttributeNames())
		}
	})

	t.Run("absent when table is null", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = nil
		d, _ := openDecoder(t, newStream(t, md))

		require.Nil(t, d.AttributeTable())
	})

	t.Run("empty table", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = []any{}
		d, _ := openDecoder(t, newStream(t, md))

		require.NotNil(t, d.AttributeTable())
		require.Equal(t, 0, d.NumAttributes())
	})

	t.Run("returned table is a copy", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = attrs
		d, _ := openDecoder(t, newStream(t, md))

		table := d.AttributeTable()
		table["extra"] = 9
		require.Equal(t, 3, d.NumAttributes())
	})

	t.Run("duplicate names", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = []any{
			map[string]any{"name": "level"},
			map[string]any{"name": "level"},
		}
		w := newStream(t, md)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrInvalidAttributeTable)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("entry without name", func(t *testing.T) {
		md := testMetadata()
		md[MetadataBuildVersionKey] = "14"
		md[MetadataAttributeTableKey] = []any{map[string]any{"id": 1}}
		w := newStream(t, md)
		_, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
		require.ErrorIs(t, err, errs.ErrInvalidAttributeTable)
	})
}

func TestDecoder_ReadTimestamp(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteTimestampDelta(5)
	w.WriteTimestampDelta(-3)
	w.WriteTimestampDelta(100)

	d, r := openDecoder(t, w)
	start := r.Pos()

	var got []int64
	for range 3 {
		ts, err := d.ReadTimestamp()
		require.NoError(t, err)
		got = append(got, ts)
	}
	require.Equal(t, []int64{1005, 1002, 1102}, got)
	require.Equal(t, int64(1102), d.Timestamp())

	d.Reset()
	require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())

	require.NoError(t, r.Seek(start))
	ts, err := d.ReadTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(1005), ts)
}

func TestDecoder_ReadTimestamp_Widths(t *testing.T) {
	deltas := []int64{
		math.MaxInt8, math.MinInt8,
		math.MaxInt16, math.MinInt16,
		math.MaxInt32, math.MinInt32,
		1 << 40, -(1 << 40),
	}

	w := newStream(t, testMetadata())
	for _, delta := range deltas {
		w.WriteTimestampDelta(delta)
	}

	d, _ := openDecoder(t, w)
	want := int64(testReferenceTimestamp)
	for _, delta := range deltas {
		want += delta
		ts, err := d.ReadTimestamp()
		require.NoError(t, err)
		require.Equal(t, want, ts)
	}
}

func TestDecoder_ReadTimestamp_Wraps(t *testing.T) {
	md := testMetadata()
	md[MetadataReferenceTimestampKey] = "9223372036854775807"
	w := newStream(t, md)
	w.WriteTimestampDelta(1)

	d, _ := openDecoder(t, w)
	ts, err := d.ReadTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), ts)
}

func TestDecoder_ReadTimestamp_BadTag(t *testing.T) {
	for _, tag := range []byte{TagTimestampVal, 0x35, TagLogtypeStrLenUByte, 0xff} {
		w := newStream(t, testMetadata())
		w.WriteTag(tag)
		w.buf = append(w.buf, 1, 2, 3, 4, 5, 6, 7, 8)

		d, _ := openDecoder(t, w)
		ts, err := d.ReadTimestamp()
		require.ErrorIs(t, err, errs.ErrUnknownTag)
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Equal(t, int64(0), ts)
		require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())
	}
}

func TestDecoder_ReadTimestamp_Truncated(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteTag(TagTimestampDeltaInt)
	w.buf = append(w.buf, 0, 1)

	d, _ := openDecoder(t, w)
	_, err := d.ReadTimestamp()
	require.ErrorIs(t, err, errs.ErrTruncated)
	require.Equal(t, int64(testReferenceTimestamp), d.Timestamp())
}

func TestDecoder_ReadLogtype(t *testing.T) {
	short := []byte("connected in \x11 ms")
	medium := bytes.Repeat([]byte("m"), 300)
	long := bytes.Repeat([]byte("l"), math.MaxUint16+1)

	w := newStream(t, testMetadata())
	w.WriteLogtype(short)
	w.WriteLogtype(medium)
	w.WriteLogtype(long)
	w.WriteLogtype(nil)

	d, _ := openDecoder(t, w)
	lt := NewLogtype()
	defer lt.Release()

	for _, want := range [][]byte{short, medium, long, {}} {
		tag, err := d.ReadTag()
		require.NoError(t, err)
		require.NoError(t, d.ReadLogtype(tag, lt))
		require.Equal(t, string(want), lt.String())
	}
}

func TestDecoder_ReadLogtype_Errors(t *testing.T) {
	t.Run("unknown tag", func(t *testing.T) {
		d, _ := openDecoder(t, newStream(t, testMetadata()))
		err := d.ReadLogtype(TagVarStrLenUByte, NewLogtype())
		require.ErrorIs(t, err, errs.ErrUnknownTag)
	})

	t.Run("negative length", func(t *testing.T) {
		w := newStream(t, testMetadata())
		w.WriteTag(TagLogtypeStrLenInt)
		w.buf = append(w.buf, 0x80, 0, 0, 0)

		d, _ := openDecoder(t, w)
		tag, err := d.ReadTag()
		require.NoError(t, err)
		err = d.ReadLogtype(tag, NewLogtype())
		require.ErrorIs(t, err, errs.ErrNegativeLength)
	})

	t.Run("truncated payload", func(t *testing.T) {
		w := newStream(t, testMetadata())
		w.WriteTag(TagLogtypeStrLenUByte)
		w.buf = append(w.buf, 10, 'a', 'b')

		d, _ := openDecoder(t, w)
		tag, err := d.ReadTag()
		require.NoError(t, err)
		err = d.ReadLogtype(tag, NewLogtype())
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestDecoder_TryReadVariable(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteDictionaryVar([]byte("db-01"))
	w.WriteDictionaryVar(bytes.Repeat([]byte("v"), 1000))
	w.WriteEncodedVar(-42)

	d, _ := openDecoder(t, w)
	vars := &VariableList{}

	for range 3 {
		tag, err := d.ReadTag()
		require.NoError(t, err)
		ok, err := d.TryReadVariable(tag, vars)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.Len(t, vars.Vars, 3)
	require.Equal(t, Variable{Kind: VariableDictionary, Text: []byte("db-01")}, vars.Vars[0])
	require.Len(t, vars.Vars[1].Text, 1000)
	require.Equal(t, Variable{Kind: VariableEncoded, Encoded: -42}, vars.Vars[2])
}

func TestDecoder_TryReadVariable_NotAVariable(t *testing.T) {
	w := newStream(t, testMetadata())
	w.buf = append(w.buf, 0xaa)

	d, r := openDecoder(t, w)
	pos := r.Pos()
	vars := &VariableList{}

	for _, tag := range []byte{TagEOF, TagLogtypeStrLenUByte, TagTimestampDeltaByte, TagAttrNull, 0xff} {
		ok, err := d.TryReadVariable(tag, vars)
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, pos, r.Pos())
	require.Empty(t, vars.Vars)
}

func TestDecoder_TryReadVariable_UnsupportedInRange(t *testing.T) {
	d, _ := openDecoder(t, newStream(t, testMetadata()))

	for _, tag := range []byte{TagVarEightByteEncoding, 0x10, 0x1f} {
		ok, err := d.TryReadVariable(tag, &VariableList{})
		require.ErrorIs(t, err, errs.ErrUnknownTag)
		require.False(t, ok)
	}
}

func TestDecoder_TryReadAttribute(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteAttrNull()
	w.WriteAttrInt(7)
	w.WriteAttrInt(-1000)
	w.WriteAttrInt(1 << 20)
	w.WriteAttrInt(math.MinInt64)
	w.WriteAttrString("main")
	w.WriteAttrString(strings.Repeat("s", 300))
	w.WriteAttrString(strings.Repeat("u", math.MaxUint16+1))

	d, _ := openDecoder(t, w)
	attrs := &AttributeList{}
	for range 8 {
		tag, err := d.ReadTag()
		require.NoError(t, err)
		ok, err := d.TryReadAttribute(tag, attrs)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.Equal(t, []Attribute{
		{Kind: AttributeNull},
		{Kind: AttributeInt, Int: 7},
		{Kind: AttributeInt, Int: -1000},
		{Kind: AttributeInt, Int: 1 << 20},
		{Kind: AttributeInt, Int: math.MinInt64},
		{Kind: AttributeString, Text: "main"},
	}, attrs.Attrs[:6])
	require.Len(t, attrs.Attrs[6].Text, 300)
	require.Len(t, attrs.Attrs[7].Text, math.MaxUint16+1)
	require.Nil(t, attrs.Attrs[0].Value())
	require.Equal(t, int64(7), attrs.Attrs[1].Value())
	require.Equal(t, "main", attrs.Attrs[5].Value())
}

func TestDecoder_TryReadAttribute_NotAnAttribute(t *testing.T) {
	d, r := openDecoder(t, newStream(t, testMetadata()))
	pos := r.Pos()

	for _, tag := range []byte{TagVarStrLenUByte, TagLogtypeStrLenUByte, TagTimestampDeltaByte, 0x50} {
		ok, err := d.TryReadAttribute(tag, &AttributeList{})
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, pos, r.Pos())
}

func TestDecoder_TryReadAttribute_UnsupportedInRange(t *testing.T) {
	d, _ := openDecoder(t, newStream(t, testMetadata()))
	ok, err := d.TryReadAttribute(0x4f, &AttributeList{})
	require.ErrorIs(t, err, errs.ErrUnknownTag)
	require.False(t, ok)
}

func BenchmarkDecoder_ReadTimestamp(b *testing.B) {
	w := NewWriter()
	w.WriteMagic()
	if err := w.WriteMetadata(testMetadata()); err != nil {
		b.Fatal(err)
	}
	for range 1024 {
		w.WriteTimestampDelta(17)
	}
	data := w.Bytes()

	for b.Loop() {
		d, err := NewDecoder(bytestream.NewReader(data), nil)
		if err != nil {
			b.Fatal(err)
		}
		for range 1024 {
			if _, err := d.ReadTimestamp(); err != nil {
				b.Fatal(err)
			}
		}
	}
}
