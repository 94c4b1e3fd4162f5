package ir

import (
	"bytes"

	"github.com/arloliu/clpir/internal/pool"
)

// Logtype is the default LogtypeBuffer. Its payload lives in a pooled
// buffer; call Release when the logtype is no longer needed.
type Logtype struct {
	buf *pool.ByteBuffer
}

var _ LogtypeBuffer = (*Logtype)(nil)

// NewLogtype returns an empty logtype buffer.
func NewLogtype() *Logtype {
	return &Logtype{buf: pool.GetPayloadBuffer()}
}

// LoadFrom implements LogtypeBuffer.
func (l *Logtype) LoadFrom(r Reader, n int) error {
	data, err := r.ReadFully(n)
	if err != nil {
		return err
	}
	l.buf.Set(data)

	return nil
}

// Bytes returns the logtype payload. The slice is only valid until the next
// LoadFrom, Reset or Release.
func (l *Logtype) Bytes() []byte {
	return l.buf.Bytes()
}

// String returns a copy of the payload as a string.
func (l *Logtype) String() string {
	return string(l.buf.Bytes())
}

// Reset empties the logtype and keeps its buffer.
func (l *Logtype) Reset() {
	l.buf.Reset()
}

// Release returns the backing buffer to the pool. The Logtype must not be
// used afterwards.
func (l *Logtype) Release() {
	pool.PutPayloadBuffer(l.buf)
	l.buf = nil
}

// VariableKind tells how a variable was encoded.
type VariableKind uint8

const (
	// VariableDictionary is a variable stored as a string.
	VariableDictionary VariableKind = iota + 1
	// VariableEncoded is an integer or float packed into four bytes.
	VariableEncoded
)

// String returns the kind name.
func (k VariableKind) String() string {
	switch k {
	case VariableDictionary:
		return "dictionary"
	case VariableEncoded:
		return "encoded"
	default:
		return "unknown"
	}
}

// Variable is one variable of a log event.
type Variable struct {
	Kind    VariableKind
	Encoded int32
	Text    []byte
}

// VariableList is the default VariableBuffer. It appends every variable it
// receives, in stream order.
type VariableList struct {
	Vars []Variable
}

var _ VariableBuffer = (*VariableList)(nil)

// LoadFrom implements VariableBuffer.
func (l *VariableList) LoadFrom(r Reader, n int) error {
	data, err := r.ReadFully(n)
	if err != nil {
		return err
	}
	l.Vars = append(l.Vars, Variable{Kind: VariableDictionary, Text: bytes.Clone(data)})

	return nil
}

// SetFourByteEncoding implements VariableBuffer.
func (l *VariableList) SetFourByteEncoding(encoded int32) {
	l.Vars = append(l.Vars, Variable{Kind: VariableEncoded, Encoded: encoded})
}

// Reset drops all variables and keeps the backing array.
func (l *VariableList) Reset() {
	l.Vars = l.Vars[:0]
}

// AttributeKind is the type of a structured attribute value.
type AttributeKind uint8

// Attribute kinds.
const (
	AttributeNull AttributeKind = iota + 1
	AttributeInt
	AttributeString
)

// String returns the kind name.
func (k AttributeKind) String() string {
	switch k {
	case AttributeNull:
		return "null"
	case AttributeInt:
		return "int"
	case AttributeString:
		return "string"
	default:
		return "unknown"
	}
}

// Attribute is one structured attribute value. Attributes of an event are
// positional: the i-th value belongs to the i-th declared attribute.
type Attribute struct {
	Kind AttributeKind
	Int  int64
	Text string
}

// Value returns the attribute as nil, int64 or string.
func (a Attribute) Value() any {
	switch a.Kind {
	case AttributeInt:
		return a.Int
	case AttributeString:
		return a.Text
	default:
		return nil
	}
}

// AttributeList is the default AttributeBuffer.
type AttributeList struct {
	Attrs []Attribute
}

var _ AttributeBuffer = (*AttributeList)(nil)

// SetNull appends a null attribute.
func (l *AttributeList) SetNull() {
	l.Attrs = append(l.Attrs, Attribute{Kind: AttributeNull})
}

// SetInt appends an integer attribute.
func (l *AttributeList) SetInt(v int64) {
	l.Attrs = append(l.Attrs, Attribute{Kind: AttributeInt, Int: v})
}

// SetStringFrom implements AttributeBuffer.
func (l *AttributeList) SetStringFrom(r Reader, n int) error {
	data, err := r.ReadFully(n)
	if err != nil {
		return err
	}
	l.Attrs = append(l.Attrs, Attribute{Kind: AttributeString, Text: string(data)})

	return nil
}

// Reset drops all attributes and keeps the backing array.
func (l *AttributeList) Reset() {
	l.Attrs = l.Attrs[:0]
}

// TokenSettings is a TokenDecoder that just records what it is given.
type TokenSettings struct {
	ZoneID           string
	TimestampPattern string
}

var _ TokenDecoder = (*TokenSettings)(nil)

// SetZoneID records the stream's time zone ID.
func (s *TokenSettings) SetZoneID(zoneID string) {
	s.ZoneID = zoneID
}

// SetTimestampPattern records the stream's timestamp pattern.
func (s *TokenSettings) SetTimestampPattern(pattern string) {
	s.TimestampPattern = pattern
}
