// Package hash derives stable identifiers for logtypes.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 of s.
func ID(s string) uint64 {
	return xxhash.Sum64String(s)
}

// LogtypeID returns the xxHash64 of a raw logtype payload. It equals
// ID(string(logtype)) without the conversion.
func LogtypeID(logtype []byte) uint64 {
	return xxhash.Sum64(logtype)
}
