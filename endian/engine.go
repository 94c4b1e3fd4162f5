// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package combines encoding/binary's ByteOrder and AppendByteOrder
// interfaces into a single EndianEngine interface, so readers and writers of
// the IR wire format can share one byte-order value.
//
// # Basic Usage
//
// The CLP IR stream is big-endian (network byte order):
//
//	engine := endian.GetBigEndianEngine()
//	r := bytestream.NewReader(data, bytestream.WithEngine(engine))
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetWireEngine returns the engine used by the IR wire format.
func GetWireEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	var b [2]byte
	engine.PutUint16(b[:], 0x0102)

	return b[0] == 0x01
}
