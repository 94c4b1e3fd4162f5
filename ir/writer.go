package ir

import (
	"math"

	"github.com/arloliu/clpir/endian"
	"github.com/bytedance/sonic"
)

// Writer builds a four-byte encoded IR stream in memory.
//
// It produces exactly the records the Decoder consumes and is used to craft
// streams for tests, fixtures and demos. It does not split messages into
// logtypes and variables; callers supply them pre-split.
type Writer struct {
	buf    []byte
	engine endian.EndianEngine
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{
		buf:    make([]byte, 0, 256),
		engine: endian.GetWireEngine(),
	}
}

// Bytes returns the stream written so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteMagic writes the four-byte encoding magic number.
func (w *Writer) WriteMagic() {
	w.buf = append(w.buf, FourByteEncodingMagicNumber[:]...)
}

// WriteMetadata serializes fields as the JSON metadata record.
func (w *Writer) WriteMetadata(fields map[string]any) error {
	serialized, err := sonic.Marshal(fields)
	if err != nil {
		return err
	}
	w.WriteRawMetadata(serialized)

	return nil
}

// WriteRawMetadata writes serialized as the JSON metadata record without
// validating it.
func (w *Writer) WriteRawMetadata(serialized []byte) {
	w.WriteTag(MetadataEncodingJSON)
	w.writeLength(len(serialized), MetadataLenUByte, MetadataLenUShort, MetadataLenInt)
	w.buf = append(w.buf, serialized...)
}

// WriteTag writes a single tag byte.
func (w *Writer) WriteTag(tag byte) {
	w.buf = append(w.buf, tag)
}

// WriteTimestampDelta writes a timestamp record using the narrowest width
// that holds delta.
func (w *Writer) WriteTimestampDelta(delta int64) {
	switch {
	case delta >= math.MinInt8 && delta <= math.MaxInt8:
		w.WriteTag(TagTimestampDeltaByte)
		w.buf = append(w.buf, byte(int8(delta)))
	case delta >= math.MinInt16 && delta <= math.MaxInt16:
		w.WriteTag(TagTimestampDeltaShort)
		w.buf = w.engine.AppendUint16(w.buf, uint16(int16(delta)))
	case delta >= math.MinInt32 && delta <= math.MaxInt32:
		w.WriteTag(TagTimestampDeltaInt)
		w.buf = w.engine.AppendUint32(w.buf, uint32(int32(delta)))
	default:
		w.WriteTag(TagTimestampDeltaLong)
		w.buf = w.engine.AppendUint64(w.buf, uint64(delta))
	}
}

// WriteLogtype writes a logtype record with the narrowest length tag.
func (w *Writer) WriteLogtype(logtype []byte) {
	w.writeLength(len(logtype), TagLogtypeStrLenUByte, TagLogtypeStrLenUShort, TagLogtypeStrLenInt)
	w.buf = append(w.buf, logtype...)
}

// WriteDictionaryVar writes a string variable with the narrowest length tag.
func (w *Writer) WriteDictionaryVar(text []byte) {
	w.writeLength(len(text), TagVarStrLenUByte, TagVarStrLenUShort, TagVarStrLenInt)
	w.buf = append(w.buf, text...)
}

// WriteEncodedVar writes a four-byte encoded variable.
func (w *Writer) WriteEncodedVar(encoded int32) {
	w.WriteTag(TagVarFourByteEncoding)
	w.buf = w.engine.AppendUint32(w.buf, uint32(encoded))
}

// WriteAttrNull writes a null attribute.
func (w *Writer) WriteAttrNull() {
	w.WriteTag(TagAttrNull)
}

// WriteAttrInt writes an integer attribute using the narrowest width that
// holds v.
func (w *Writer) WriteAttrInt(v int64) {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		w.WriteTag(TagAttrNumByte)
		w.buf = append(w.buf, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		w.WriteTag(TagAttrNumShort)
		w.buf = w.engine.AppendUint16(w.buf, uint16(int16(v)))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		w.WriteTag(TagAttrNumInt)
		w.buf = w.engine.AppendUint32(w.buf, uint32(int32(v)))
	default:
		w.WriteTag(TagAttrNumLong)
		w.buf = w.engine.AppendUint64(w.buf, uint64(v))
	}
}

// WriteAttrString writes a string attribute with the narrowest length tag.
func (w *Writer) WriteAttrString(s string) {
	switch n := len(s); {
	case n <= math.MaxUint8:
		w.WriteTag(TagAttrStrLenUByte)
		w.buf = append(w.buf, byte(n))
	case n <= math.MaxUint16:
		w.WriteTag(TagAttrStrLenUShort)
		w.buf = w.engine.AppendUint16(w.buf, uint16(n))
	default:
		w.WriteTag(TagAttrStrLenUInt)
		w.buf = w.engine.AppendUint32(w.buf, uint32(n))
	}
	w.buf = append(w.buf, s...)
}

// WriteEOF writes the end-of-stream tag.
func (w *Writer) WriteEOF() {
	w.WriteTag(TagEOF)
}

func (w *Writer) writeLength(n int, u8Tag, u16Tag, i32Tag byte) {
	switch {
	case n <= math.MaxUint8:
		w.WriteTag(u8Tag)
		w.buf = append(w.buf, byte(n))
	case n <= math.MaxUint16:
		w.WriteTag(u16Tag)
		w.buf = w.engine.AppendUint16(w.buf, uint16(n))
	default:
		w.WriteTag(i32Tag)
		w.buf = w.engine.AppendUint32(w.buf, uint32(n))
	}
}
