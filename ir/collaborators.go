package ir

// Reader is the positional byte source the decoder consumes. Every read
// advances a cursor; there is no pushback.
//
// *bytestream.Reader implements Reader.
type Reader interface {
	ReadUint8() (uint8, error)
	ReadInt8() (int8, error)
	ReadUint16() (uint16, error)
	ReadInt16() (int16, error)
	ReadUint32() (uint32, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadFully(n int) ([]byte, error)
}

// LogtypeBuffer receives logtype payloads.
type LogtypeBuffer interface {
	// LoadFrom reads exactly n payload bytes from r.
	LoadFrom(r Reader, n int) error
}

// VariableBuffer receives variable payloads.
type VariableBuffer interface {
	// LoadFrom reads a dictionary (string) variable of n bytes from r.
	LoadFrom(r Reader, n int) error
	// SetFourByteEncoding receives a four-byte encoded integer or float variable.
	SetFourByteEncoding(encoded int32)
}

// AttributeBuffer receives structured attribute values.
type AttributeBuffer interface {
	SetNull()
	SetInt(v int64)
	// SetStringFrom reads a string attribute of n bytes from r.
	SetStringFrom(r Reader, n int) error
}

// TokenDecoder receives the timestamp settings of a stream during header
// parsing. The decoder does not interpret them.
type TokenDecoder interface {
	SetZoneID(zoneID string)
	SetTimestampPattern(pattern string)
}
