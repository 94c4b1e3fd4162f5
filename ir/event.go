package ir

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/arloliu/clpir/errs"
)

// Event is one decoded log event.
type Event struct {
	// Timestamp is the running timestamp after this event's delta, in epoch
	// milliseconds.
	Timestamp int64
	// Logtype is the message template with one placeholder per variable.
	Logtype []byte
	// Variables are the event's variables in placeholder order.
	Variables []Variable
	// Attributes are the event's structured attributes in declaration order.
	Attributes []Attribute
}

// Message renders the event's message by substituting its variables into
// the logtype.
func (e *Event) Message() (string, error) {
	return DecodeMessage(e.Logtype, e.Variables)
}

// EventReader reads whole log events from a Decoder.
//
// An event is any number of variable and attribute records, then a logtype
// record, then a timestamp record. The stream ends at an EOF tag or when the
// input runs out exactly at an event boundary.
type EventReader struct {
	d       *Decoder
	logtype *Logtype
	vars    VariableList
	attrs   AttributeList
	done    bool
}

// NewEventReader returns a reader over the records following d's header.
func NewEventReader(d *Decoder) *EventReader {
	return &EventReader{
		d:       d,
		logtype: NewLogtype(),
	}
}

// Next returns the next event, or io.EOF at the end of the stream.
// The returned event does not alias any internal buffer.
func (er *EventReader) Next() (*Event, error) {
	if er.done {
		return nil, io.EOF
	}

	er.vars.Reset()
	er.attrs.Reset()

	tag, err := er.d.ReadTag()
	if err != nil {
		if errors.Is(err, errs.ErrTruncated) {
			er.done = true
			return nil, io.EOF
		}

		return nil, err
	}
	if tag == TagEOF {
		er.done = true
		return nil, io.EOF
	}

	for {
		ok, err := er.d.TryReadAttribute(tag, &er.attrs)
		if err != nil {
			return nil, err
		}
		if !ok {
			ok, err = er.d.TryReadVariable(tag, &er.vars)
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			break
		}

		tag, err = er.d.ReadTag()
		if err != nil {
			return nil, fmt.Errorf("read event tag: %w", err)
		}
	}

	if err := er.d.ReadLogtype(tag, er.logtype); err != nil {
		return nil, err
	}

	ts, err := er.d.ReadTimestamp()
	if err != nil {
		return nil, err
	}

	ev := &Event{
		Timestamp: ts,
		Logtype:   bytes.Clone(er.logtype.Bytes()),
	}
	if len(er.vars.Vars) > 0 {
		ev.Variables = append([]Variable(nil), er.vars.Vars...)
	}
	if len(er.attrs.Attrs) > 0 {
		ev.Attributes = append([]Attribute(nil), er.attrs.Attrs...)
	}

	return ev, nil
}

// All iterates over the remaining events. Iteration stops after the first
// error, which is yielded with a nil event.
func (er *EventReader) All() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			ev, err := er.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the reader's pooled buffers.
func (er *EventReader) Close() {
	if er.logtype != nil {
		er.logtype.Release()
		er.logtype = nil
	}
	er.done = true
}

// DecodeMessage substitutes vars into the placeholders of logtype.
//
// Integer and float placeholders consume an encoded variable, dictionary
// placeholders a dictionary variable. An escape byte makes the following
// byte literal.
func DecodeMessage(logtype []byte, vars []Variable) (string, error) {
	var sb strings.Builder
	sb.Grow(len(logtype))

	next := 0
	for i := 0; i < len(logtype); i++ {
		c := logtype[i]
		switch c {
		case PlaceholderEscape:
			if i+1 < len(logtype) {
				i++
			}
			sb.WriteByte(logtype[i])

			continue
		case PlaceholderInteger, PlaceholderFloat, PlaceholderDictionary:
		default:
			sb.WriteByte(c)
			continue
		}

		if next >= len(vars) {
			return "", fmt.Errorf("%w: logtype has more placeholders than the %d variables", errs.ErrFormat, len(vars))
		}
		v := vars[next]
		next++

		switch {
		case c == PlaceholderDictionary && v.Kind == VariableDictionary:
			sb.Write(v.Text)
		case c == PlaceholderInteger && v.Kind == VariableEncoded:
			sb.WriteString(strconv.FormatInt(int64(v.Encoded), 10))
		case c == PlaceholderFloat && v.Kind == VariableEncoded:
			f, err := DecodeFloatVar(v.Encoded)
			if err != nil {
				return "", err
			}
			sb.WriteString(f)
		default:
			return "", fmt.Errorf("%w: placeholder 0x%02x does not match %s variable %d", errs.ErrFormat, c, v.Kind, next-1)
		}
	}

	if next != len(vars) {
		return "", fmt.Errorf("%w: %d variables left unused", errs.ErrFormat, len(vars)-next)
	}

	return sb.String(), nil
}

// Four-byte float layout, most significant bit first: sign (1), digits (25),
// digit count minus one (3), decimal point position from the right minus one (3).
const (
	floatDigitsBits     = 25
	floatDigitsMask     = 1<<floatDigitsBits - 1
	floatFieldMask      = 0x07
	floatNumDigitsShift = 3
	floatDigitsShift    = 6
	floatSignShift      = 31
)

// DecodeFloatVar renders a four-byte encoded float variable.
func DecodeFloatVar(encoded int32) (string, error) {
	v := uint32(encoded)
	decimalPos := int(v&floatFieldMask) + 1
	numDigits := int((v>>floatNumDigitsShift)&floatFieldMask) + 1
	digits := (v >> floatDigitsShift) & floatDigitsMask

	s := strconv.FormatUint(uint64(digits), 10)
	if len(s) > numDigits || decimalPos > numDigits {
		return "", fmt.Errorf("%w: invalid encoded float 0x%08x", errs.ErrFormat, v)
	}

	var sb strings.Builder
	sb.Grow(numDigits + 2)
	if v>>floatSignShift == 1 {
		sb.WriteByte('-')
	}

	padded := strings.Repeat("0", numDigits-len(s)) + s
	point := numDigits - decimalPos
	sb.WriteString(padded[:point])
	sb.WriteByte('.')
	sb.WriteString(padded[point:])

	return sb.String(), nil
}

// EncodeFloatVar packs a decimal string such as "-12.50" into the four-byte
// float layout. It reports false when the value does not fit.
func EncodeFloatVar(value string) (int32, bool) {
	var sign uint32
	if strings.HasPrefix(value, "-") {
		sign = 1
		value = value[1:]
	}

	dot := strings.IndexByte(value, '.')
	if dot < 0 || strings.IndexByte(value[dot+1:], '.') >= 0 {
		return 0, false
	}
	digitStr := value[:dot] + value[dot+1:]
	numDigits := len(digitStr)
	decimalPos := len(value) - dot - 1
	if numDigits == 0 || numDigits > 8 || decimalPos == 0 {
		return 0, false
	}

	digits, err := strconv.ParseUint(digitStr, 10, 32)
	if err != nil || digits > floatDigitsMask {
		return 0, false
	}

	v := sign<<floatSignShift |
		uint32(digits)<<floatDigitsShift |
		uint32(numDigits-1)<<floatNumDigitsShift |
		uint32(decimalPos-1)

	return int32(v), true
}
