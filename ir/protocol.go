package ir

// Magic numbers identifying the integer width used to encode variables.
var (
	FourByteEncodingMagicNumber  = [4]byte{0xfd, 0x2f, 0xb5, 0x29}
	EightByteEncodingMagicNumber = [4]byte{0xfd, 0x2f, 0xb5, 0x30}
)

// ProtocolVersion is the newest protocol version this decoder accepts.
const ProtocolVersion = "v0.0.1"

// LegacyProtocolVersion is the oldest IR protocol version. It is accepted
// unconditionally and predates the semantic-version rules.
const LegacyProtocolVersion = "v0.0.0"

// Metadata tags.
const (
	MetadataEncodingJSON byte = 0x01

	MetadataLenUByte  byte = 0x11
	MetadataLenUShort byte = 0x12
	MetadataLenInt    byte = 0x13
)

// Metadata keys.
const (
	MetadataVersionKey                = "VERSION"
	MetadataReferenceTimestampKey     = "REFERENCE_TIMESTAMP"
	MetadataTimeZoneIDKey             = "TZ_ID"
	MetadataTimestampPatternKey       = "TIMESTAMP_PATTERN"
	MetadataTimestampPatternSyntaxKey = "TIMESTAMP_PATTERN_SYNTAX"
	MetadataBuildVersionKey           = "ANDROID_BUILD_VERSION"
	MetadataAttributeTableKey         = "ATTRIBUTE_TABLE"

	AttributeNameKey = "name"
)

// Payload tags.
const (
	TagEOF byte = 0x00

	TagVarStrLenUByte       byte = 0x11
	TagVarStrLenUShort      byte = 0x12
	TagVarStrLenInt         byte = 0x13
	TagVarFourByteEncoding  byte = 0x18
	TagVarEightByteEncoding byte = 0x19

	TagLogtypeStrLenUByte  byte = 0x21
	TagLogtypeStrLenUShort byte = 0x22
	TagLogtypeStrLenInt    byte = 0x23

	TagTimestampVal        byte = 0x30
	TagTimestampDeltaByte  byte = 0x31
	TagTimestampDeltaShort byte = 0x32
	TagTimestampDeltaInt   byte = 0x33
	TagTimestampDeltaLong  byte = 0x34

	TagAttrNull         byte = 0x40
	TagAttrNumByte      byte = 0x41
	TagAttrNumShort     byte = 0x42
	TagAttrNumInt       byte = 0x43
	TagAttrNumLong      byte = 0x44
	TagAttrStrLenUByte  byte = 0x45
	TagAttrStrLenUShort byte = 0x46
	TagAttrStrLenUInt   byte = 0x47
)

// Tag ranges. A tag whose high nibble selects a record kind belongs to that
// kind even if its low nibble is not a known sub-encoding.
const (
	tagKindMask byte = 0xf0
	tagKindVar  byte = 0x10
	tagKindAttr byte = 0x40
)

// IsVariableTag reports whether tag is in the variable tag range.
func IsVariableTag(tag byte) bool {
	return tag&tagKindMask == tagKindVar
}

// IsAttributeTag reports whether tag is in the attribute tag range.
func IsAttributeTag(tag byte) bool {
	return tag&tagKindMask == tagKindAttr
}

// Placeholders embedded in a four-byte encoded logtype, one per variable.
const (
	PlaceholderInteger    byte = 0x11
	PlaceholderDictionary byte = 0x12
	PlaceholderFloat      byte = 0x13
	PlaceholderEscape     byte = '\\'
)
