// Package ir decodes CLP IR streams that use the four-byte encoding.
//
// A stream starts with a four-byte magic number and a JSON metadata record,
// followed by tagged records: variables, structured attributes, logtypes and
// timestamp deltas. Each record is a one-byte tag and a payload whose width
// the tag selects. Multi-byte values are big-endian.
//
// Decoder exposes the records one at a time and leaves event assembly to the
// caller; EventReader assembles whole events on top of it:
//
//	d, err := ir.NewDecoder(bytestream.NewReader(data), &ir.TokenSettings{})
//	if err != nil {
//		return err
//	}
//	er := ir.NewEventReader(d)
//	defer er.Close()
//	for ev, err := range er.All() {
//		if err != nil {
//			return err
//		}
//		msg, _ := ev.Message()
//		fmt.Println(ev.Timestamp, msg)
//	}
//
// Writer produces the same format and exists for fixtures and tests.
package ir
