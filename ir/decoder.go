package ir

import (
	"fmt"
	"log/slog"
	"maps"
	"math"

	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/internal/options"
)

// Decoder decodes a four-byte encoded CLP IR stream.
//
// NewDecoder consumes the stream header: the encoding magic number and the
// JSON metadata. After that the caller pulls records with ReadTag,
// ReadTimestamp, ReadLogtype, TryReadVariable and TryReadAttribute in the
// order the wire format dictates, or uses an EventReader to do it.
//
// The only mutable state is the running timestamp, which every timestamp
// record advances by a signed delta. Accumulation uses Go's two's-complement
// int64 arithmetic, so a delta that overflows wraps around rather than
// saturating or failing.
//
// Any error returned by a record read is fatal: the reader position is then
// unspecified and the decoder must be discarded.
//
// Note: The Decoder is NOT thread-safe. Use one decoder per stream.
type Decoder struct {
	r              Reader
	metadata       Metadata
	timestamp      int64
	attributeTable map[string]int
	logger         *slog.Logger
}

// NewDecoder validates the stream header read from r and returns a decoder
// positioned at the first record.
//
// The time zone and timestamp pattern are passed to tokens; tokens may be nil.
//
// Returns:
//   - *Decoder: decoder ready for record reads
//   - error: errs.ErrInvalidEncoding, errs.ErrUnsupportedEncoding,
//     errs.ErrUnsupportedMetadataEncoding, errs.ErrUnsupportedLengthEncoding,
//     errs.ErrInvalidMetadata, errs.ErrInvalidVersion,
//     errs.ErrInvalidAttributeTable, errs.ErrTruncated (all errs.ErrFormat),
//     or errs.ErrTooNew / errs.ErrTooOld (errs.ErrVersion)
func NewDecoder(r Reader, tokens TokenDecoder, opts ...DecoderOption) (*Decoder, error) {
	cfg := newDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	d := &Decoder{
		r:      r,
		logger: cfg.logger,
	}

	if err := d.readAndValidateEncodingType(); err != nil {
		return nil, err
	}
	if err := d.initializeStream(tokens, cfg.supportedVersion); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Decoder) readAndValidateEncodingType() error {
	magic, err := d.r.ReadFully(len(FourByteEncodingMagicNumber))
	if err != nil {
		return fmt.Errorf("read encoding magic number: %w", err)
	}

	switch [4]byte(magic) {
	case FourByteEncodingMagicNumber:
		return nil
	case EightByteEncodingMagicNumber:
		return errs.ErrUnsupportedEncoding
	default:
		return fmt.Errorf("%w: magic number % x", errs.ErrInvalidEncoding, magic)
	}
}

func (d *Decoder) initializeStream(tokens TokenDecoder, supportedVersion string) error {
	md, err := d.readMetadata()
	if err != nil {
		return err
	}
	if err := ValidateVersion(md.Version, supportedVersion); err != nil {
		return err
	}

	if md.HasBuildVersion && md.Attributes != nil {
		table, err := buildAttributeTable(md.Attributes)
		if err != nil {
			return err
		}
		d.attributeTable = table
	}

	if tokens != nil {
		tokens.SetZoneID(md.TimeZoneID)
		tokens.SetTimestampPattern(md.TimestampPattern)
	}

	d.metadata = md
	d.timestamp = md.ReferenceTimestamp

	d.logger.Debug("ir stream initialized",
		slog.String("version", md.Version),
		slog.Int64("reference_timestamp", md.ReferenceTimestamp),
		slog.String("tz_id", md.TimeZoneID),
		slog.Int("attributes", d.NumAttributes()),
	)

	return nil
}

func (d *Decoder) readMetadata() (Metadata, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata encoding: %w", err)
	}
	if tag != MetadataEncodingJSON {
		return Metadata{}, fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedMetadataEncoding, tag)
	}

	lenTag, err := d.ReadTag()
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata length encoding: %w", err)
	}

	var length int
	switch lenTag {
	case MetadataLenUByte:
		length, err = d.readUint8Len()
	case MetadataLenUShort:
		length, err = d.readUint16Len()
	case MetadataLenInt:
		length, err = d.readInt32Len()
	default:
		return Metadata{}, fmt.Errorf("%w: metadata length tag 0x%02x", errs.ErrUnsupportedLengthEncoding, lenTag)
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata length: %w", err)
	}

	serialized, err := d.r.ReadFully(length)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}

	return ParseMetadata(serialized)
}

// Metadata returns the parsed stream header.
func (d *Decoder) Metadata() Metadata {
	return d.metadata
}

// Timestamp returns the running timestamp.
func (d *Decoder) Timestamp() int64 {
	return d.timestamp
}

// Reset restores the running timestamp to the reference timestamp.
//
// Reset does not move the reader; callers that want to re-read records must
// rewind the reader themselves (see bytestream.Reader.Seek).
func (d *Decoder) Reset() {
	d.timestamp = d.metadata.ReferenceTimestamp
}

// NumAttributes returns the number of declared attributes, or 0 when the
// stream has no attribute table.
func (d *Decoder) NumAttributes() int {
	return len(d.attributeTable)
}

// AttributeTable returns a copy of the attribute name to ordinal mapping,
// or nil when the stream declares no attribute table.
func (d *Decoder) AttributeTable() map[string]int {
	return maps.Clone(d.attributeTable)
}

// AttributeNames returns the declared attribute names in ordinal order,
// or nil when the stream declares no attribute table.
func (d *Decoder) AttributeNames() []string {
	if d.attributeTable == nil {
		return nil
	}

	names := make([]string, len(d.metadata.Attributes))
	for i, decl := range d.metadata.Attributes {
		names[i] = decl.Name
	}

	return names
}

// ReadTag reads the next tag byte.
func (d *Decoder) ReadTag() (byte, error) {
	return d.r.ReadUint8()
}

// ReadTimestamp reads a timestamp-delta record, including its tag, adds the
// delta to the running timestamp and returns the new running timestamp.
//
// An unknown tag returns errs.ErrUnknownTag and leaves the running timestamp
// unchanged.
func (d *Decoder) ReadTimestamp() (int64, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return 0, fmt.Errorf("read timestamp tag: %w", err)
	}

	var delta int64
	switch tag {
	case TagTimestampDeltaByte:
		var v int8
		v, err = d.r.ReadInt8()
		delta = int64(v)
	case TagTimestampDeltaShort:
		var v int16
		v, err = d.r.ReadInt16()
		delta = int64(v)
	case TagTimestampDeltaInt:
		var v int32
		v, err = d.r.ReadInt32()
		delta = int64(v)
	case TagTimestampDeltaLong:
		delta, err = d.r.ReadInt64()
	default:
		return 0, fmt.Errorf("%w: timestamp tag 0x%02x", errs.ErrUnknownTag, tag)
	}
	if err != nil {
		return 0, fmt.Errorf("read timestamp delta: %w", err)
	}

	d.timestamp += delta

	return d.timestamp, nil
}

// ReadLogtype reads the logtype whose tag the caller already consumed and
// loads its payload into buf.
func (d *Decoder) ReadLogtype(tag byte, buf LogtypeBuffer) error {
	var (
		length int
		err    error
	)
	switch tag {
	case TagLogtypeStrLenUByte:
		length, err = d.readUint8Len()
	case TagLogtypeStrLenUShort:
		length, err = d.readUint16Len()
	case TagLogtypeStrLenInt:
		length, err = d.readInt32Len()
	default:
		return fmt.Errorf("%w: logtype tag 0x%02x", errs.ErrUnknownTag, tag)
	}
	if err != nil {
		return fmt.Errorf("read logtype length: %w", err)
	}

	if err := buf.LoadFrom(d.r, length); err != nil {
		return fmt.Errorf("read logtype: %w", err)
	}

	return nil
}

// TryReadVariable reads a variable if tag is a variable tag.
//
// Returns false and consumes nothing when tag is outside the variable range.
// A tag inside the range that is not a supported variable encoding is an
// error, since skipping it would desynchronize the stream.
func (d *Decoder) TryReadVariable(tag byte, buf VariableBuffer) (bool, error) {
	if !IsVariableTag(tag) {
		return false, nil
	}

	var (
		length int
		err    error
	)
	switch tag {
	case TagVarFourByteEncoding:
		v, err := d.r.ReadInt32()
		if err != nil {
			return false, fmt.Errorf("read encoded variable: %w", err)
		}
		buf.SetFourByteEncoding(v)

		return true, nil
	case TagVarStrLenUByte:
		length, err = d.readUint8Len()
	case TagVarStrLenUShort:
		length, err = d.readUint16Len()
	case TagVarStrLenInt:
		length, err = d.readInt32Len()
	default:
		return false, fmt.Errorf("%w: variable tag 0x%02x", errs.ErrUnknownTag, tag)
	}
	if err != nil {
		return false, fmt.Errorf("read variable length: %w", err)
	}

	if err := buf.LoadFrom(d.r, length); err != nil {
		return false, fmt.Errorf("read variable: %w", err)
	}

	return true, nil
}

// TryReadAttribute reads an attribute value if tag is an attribute tag.
//
// Returns false and consumes nothing when tag is outside the attribute range.
// A tag inside the range that is not a supported attribute encoding is an error.
func (d *Decoder) TryReadAttribute(tag byte, buf AttributeBuffer) (bool, error) {
	if !IsAttributeTag(tag) {
		return false, nil
	}

	var (
		value  int64
		length int
		err    error
	)
	switch tag {
	case TagAttrNull:
		buf.SetNull()
		return true, nil
	case TagAttrNumByte:
		var v int8
		v, err = d.r.ReadInt8()
		value = int64(v)
	case TagAttrNumShort:
		var v int16
		v, err = d.r.ReadInt16()
		value = int64(v)
	case TagAttrNumInt:
		var v int32
		v, err = d.r.ReadInt32()
		value = int64(v)
	case TagAttrNumLong:
		value, err = d.r.ReadInt64()
	case TagAttrStrLenUByte:
		length, err = d.readUint8Len()
	case TagAttrStrLenUShort:
		length, err = d.readUint16Len()
	case TagAttrStrLenUInt:
		length, err = d.readUint32Len()
	default:
		return false, fmt.Errorf("%w: attribute tag 0x%02x", errs.ErrUnknownTag, tag)
	}
	if err != nil {
		return false, fmt.Errorf("read attribute: %w", err)
	}

	switch tag {
	case TagAttrStrLenUByte, TagAttrStrLenUShort, TagAttrStrLenUInt:
		if err := buf.SetStringFrom(d.r, length); err != nil {
			return false, fmt.Errorf("read attribute string: %w", err)
		}
	default:
		buf.SetInt(value)
	}

	return true, nil
}

func (d *Decoder) readUint8Len() (int, error) {
	n, err := d.r.ReadUint8()
	return int(n), err
}

func (d *Decoder) readUint16Len() (int, error) {
	n, err := d.r.ReadUint16()
	return int(n), err
}

func (d *Decoder) readUint32Len() (int, error) {
	n, err := d.r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(n) > math.MaxInt {
		return 0, fmt.Errorf("%w: length %d", errs.ErrTruncated, n)
	}

	return int(n), nil
}

func (d *Decoder) readInt32Len() (int, error) {
	n, err := d.r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrNegativeLength, n)
	}

	return int(n), nil
}
