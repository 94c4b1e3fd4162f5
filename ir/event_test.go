package ir

import (
	"errors"
	"io"
	"testing"

	"github.com/arloliu/clpir/bytestream"
	"github.com/arloliu/clpir/errs"
	"github.com/stretchr/testify/require"
)

func encodedFloat(t *testing.T, s string) int32 {
	t.Helper()

	v, ok := EncodeFloatVar(s)
	require.True(t, ok, s)

	return v
}

func TestEventReader(t *testing.T) {
	md := testMetadata()
	md[MetadataBuildVersionKey] = "14"
	md[MetadataAttributeTableKey] = []any{map[string]any{"name": "level"}, map[string]any{"name": "pid"}}

	w := newStream(t, md)

	w.WriteAttrString("INFO")
	w.WriteAttrInt(4242)
	w.WriteDictionaryVar([]byte("db-01"))
	w.WriteEncodedVar(17)
	w.WriteLogtype([]byte("connected to \x12 in \x11 ms"))
	w.WriteTimestampDelta(5)

	w.WriteAttrNull()
	w.WriteAttrInt(1)
	w.WriteEncodedVar(encodedFloat(t, "0.25"))
	w.WriteLogtype([]byte("load \x13"))
	w.WriteTimestampDelta(-3)

	w.WriteLogtype([]byte("idle"))
	w.WriteTimestampDelta(100)
	w.WriteEOF()

	d, _ := openDecoder(t, w)
	er := NewEventReader(d)
	defer er.Close()

	ev, err := er.Next()
	require.NoError(t, err)
	require.Equal(t, int64(1005), ev.Timestamp)
	require.Equal(t, []Attribute{{Kind: AttributeString, Text: "INFO"}, {Kind: AttributeInt, Int: 4242}}, ev.Attributes)
	msg, err := ev.Message()
	require.NoError(t, err)
	require.Equal(t, "connected to db-01 in 17 ms", msg)

	ev, err = er.Next()
	require.NoError(t, err)
	require.Equal(t, int64(1002), ev.Timestamp)
	msg, err = ev.Message()
	require.NoError(t, err)
	require.Equal(t, "load 0.25", msg)
	require.Equal(t, AttributeNull, ev.Attributes[0].Kind)

	ev, err = er.Next()
	require.NoError(t, err)
	require.Equal(t, int64(1102), ev.Timestamp)
	require.Equal(t, "idle", string(ev.Logtype))
	require.Nil(t, ev.Variables)
	require.Nil(t, ev.Attributes)

	_, err = er.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = er.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestEventReader_EndWithoutEOFTag(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteLogtype([]byte("a"))
	w.WriteTimestampDelta(1)

	d, _ := openDecoder(t, w)
	er := NewEventReader(d)

	var n int
	for ev, err := range er.All() {
		require.NoError(t, err)
		require.Equal(t, "a", string(ev.Logtype))
		n++
	}
	require.Equal(t, 1, n)
}

func TestEventReader_EventsDoNotAlias(t *testing.T) {
	w := newStream(t, testMetadata())
	w.WriteLogtype([]byte("first"))
	w.WriteTimestampDelta(1)
	w.WriteLogtype([]byte("other"))
	w.WriteTimestampDelta(1)

	d, _ := openDecoder(t, w)
	er := NewEventReader(d)

	first, err := er.Next()
	require.NoError(t, err)
	_, err = er.Next()
	require.NoError(t, err)
	require.Equal(t, "first", string(first.Logtype))
}

func TestEventReader_Errors(t *testing.T) {
	t.Run("truncated inside event", func(t *testing.T) {
		w := newStream(t, testMetadata())
		w.WriteLogtype([]byte("cut"))

		d, _ := openDecoder(t, w)
		_, err := NewEventReader(d).Next()
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("unknown logtype tag", func(t *testing.T) {
		w := newStream(t, testMetadata())
		w.WriteTag(0x7e)

		d, _ := openDecoder(t, w)
		_, err := NewEventReader(d).Next()
		require.ErrorIs(t, err, errs.ErrUnknownTag)
	})

	t.Run("iterator yields error once", func(t *testing.T) {
		w := newStream(t, testMetadata())
		w.WriteLogtype([]byte("ok"))
		w.WriteTimestampDelta(1)
		w.WriteTag(TagVarEightByteEncoding)

		d, _ := openDecoder(t, w)
		var got []error
		for _, err := range NewEventReader(d).All() {
			got = append(got, err)
		}
		require.Len(t, got, 2)
		require.NoError(t, got[0])
		require.True(t, errors.Is(got[1], errs.ErrUnknownTag))
	})
}

func TestEventReader_Legacy(t *testing.T) {
	md := testMetadata()
	md[MetadataVersionKey] = LegacyProtocolVersion
	w := newStream(t, md)
	w.WriteLogtype([]byte("hello"))
	w.WriteTimestampDelta(0)

	d, err := NewDecoder(bytestream.NewReader(w.Bytes()), nil)
	require.NoError(t, err)
	ev, err := NewEventReader(d).Next()
	require.NoError(t, err)
	require.Equal(t, int64(testReferenceTimestamp), ev.Timestamp)
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		logtype string
		vars    []Variable
		want    string
		wantErr bool
	}{
		{"no placeholders", "plain", nil, "plain", false},
		{"integer", "n=\x11", []Variable{{Kind: VariableEncoded, Encoded: -7}}, "n=-7", false},
		{"dictionary", "user \x12", []Variable{{Kind: VariableDictionary, Text: []byte("ana")}}, "user ana", false},
		{"escaped placeholder", "a\\\x11b", nil, "a\x11b", false},
		{"escaped escape", "a\\\\b", nil, "a\\b", false},
		{"trailing escape", "a\\", nil, "a\\", false},
		{"missing variable", "\x11 \x11", []Variable{{Kind: VariableEncoded, Encoded: 1}}, "", true},
		{"kind mismatch", "\x12", []Variable{{Kind: VariableEncoded, Encoded: 1}}, "", true},
		{"unused variable", "x", []Variable{{Kind: VariableEncoded, Encoded: 1}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessage([]byte(tt.logtype), tt.vars)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFloatVar(t *testing.T) {
	for _, s := range []string{"0.25", "12.34", "-1.5", "3.14159", "-0.001", ".5", "1234567.8"} {
		t.Run(s, func(t *testing.T) {
			v, ok := EncodeFloatVar(s)
			require.True(t, ok)
			got, err := DecodeFloatVar(v)
			require.NoError(t, err)
			require.Equal(t, s, got)
		})
	}

	for _, s := range []string{"12", "1.2.3", "123456789.1", "1.", "abc.d", "99999999.9"} {
		_, ok := EncodeFloatVar(s)
		require.False(t, ok, s)
	}
}

func TestDecodeFloatVar_Invalid(t *testing.T) {
	// digits 123 with a declared digit count of 1
	v := int32(123 << floatDigitsShift)
	_, err := DecodeFloatVar(v)
	require.ErrorIs(t, err, errs.ErrFormat)
}
