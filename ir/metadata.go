package ir

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/arloliu/clpir/errs"
	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
)

// metadataAPI decodes integers into int64 so that reference timestamps
// written as JSON numbers keep full 64-bit precision.
var metadataAPI = sonic.Config{UseInt64: true}.Froze()

// AttributeDecl is one entry of the ATTRIBUTE_TABLE metadata array.
type AttributeDecl struct {
	Name string
}

// Metadata is the JSON header of an IR stream.
type Metadata struct {
	// Version is the protocol version the stream was written with.
	Version string
	// ReferenceTimestamp seeds the running timestamp, in epoch milliseconds.
	ReferenceTimestamp int64
	// TimeZoneID is the stream's IANA time zone, e.g. "America/Toronto".
	TimeZoneID string
	// TimestampPattern is the pattern used to render timestamps.
	TimestampPattern string
	// TimestampPatternSyntax names the syntax of TimestampPattern, if declared.
	TimestampPatternSyntax string
	// BuildVersion is the platform build version, if declared.
	BuildVersion string
	// HasBuildVersion reports whether the build version key was present.
	// Only such streams carry an attribute table.
	HasBuildVersion bool
	// Attributes are the declared structured attributes, in ordinal order.
	// They are only read when HasBuildVersion is set.
	Attributes []AttributeDecl
	// Raw holds every metadata key, including ones this package ignores.
	Raw map[string]any
}

// ParseMetadata parses a serialized JSON metadata document.
//
// VERSION and REFERENCE_TIMESTAMP are required. REFERENCE_TIMESTAMP may be a
// JSON string (as CLP writes it) or an integer. Protocol version checks are
// left to ValidateVersion.
func ParseMetadata(serialized []byte) (Metadata, error) {
	if !utf8.Valid(serialized) {
		return Metadata{}, fmt.Errorf("%w: not valid UTF-8", errs.ErrInvalidMetadata)
	}

	var raw map[string]any
	if err := metadataAPI.Unmarshal(serialized, &raw); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}
	if raw == nil {
		return Metadata{}, fmt.Errorf("%w: not a JSON object", errs.ErrInvalidMetadata)
	}

	md := Metadata{Raw: raw}

	version, ok := raw[MetadataVersionKey].(string)
	if !ok {
		return Metadata{}, fmt.Errorf("%w: missing or non-string %s", errs.ErrInvalidVersion, MetadataVersionKey)
	}
	md.Version = version

	ts, err := parseReferenceTimestamp(raw[MetadataReferenceTimestampKey])
	if err != nil {
		return Metadata{}, err
	}
	md.ReferenceTimestamp = ts

	if md.TimeZoneID, err = optionalString(raw, MetadataTimeZoneIDKey); err != nil {
		return Metadata{}, err
	}
	if md.TimestampPattern, err = optionalString(raw, MetadataTimestampPatternKey); err != nil {
		return Metadata{}, err
	}
	if md.TimestampPatternSyntax, err = optionalString(raw, MetadataTimestampPatternSyntaxKey); err != nil {
		return Metadata{}, err
	}

	if buildVersion, ok := raw[MetadataBuildVersionKey]; ok {
		md.HasBuildVersion = true
		md.BuildVersion = cast.ToString(buildVersion)
	}

	// Streams without a build version predate attribute tables; whatever
	// they carry under the table key is ignored.
	if md.HasBuildVersion {
		if md.Attributes, err = parseAttributeDecls(raw[MetadataAttributeTableKey]); err != nil {
			return Metadata{}, err
		}
	}

	return md, nil
}

// parseReferenceTimestamp accepts a base-10 integer string or an integral
// JSON number that fits in int64.
func parseReferenceTimestamp(v any) (int64, error) {
	switch tv := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: missing %s", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey)
	case string:
		ts, err := strconv.ParseInt(tv, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey, err)
		}

		return ts, nil
	case float64:
		// 2^63 is exactly representable; anything at or above it overflows.
		if tv != math.Trunc(tv) || tv < math.MinInt64 || tv >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s %v is not an int64", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey, tv)
		}

		return int64(tv), nil
	case uint64:
		if tv > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s %d overflows int64", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey, tv)
		}

		return int64(tv), nil
	case bool, []any, map[string]any:
		return 0, fmt.Errorf("%w: %s has type %T", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey, v)
	}

	ts, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrInvalidMetadata, MetadataReferenceTimestampKey, err)
	}

	return ts, nil
}

func optionalString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has type %T", errs.ErrInvalidMetadata, key, v)
	}

	return s, nil
}

func parseAttributeDecls(v any) ([]AttributeDecl, error) {
	if v == nil {
		return nil, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s has type %T", errs.ErrInvalidAttributeTable, MetadataAttributeTableKey, v)
	}

	decls := make([]AttributeDecl, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has type %T", errs.ErrInvalidAttributeTable, i, item)
		}
		name, ok := entry[AttributeNameKey].(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no %q", errs.ErrInvalidAttributeTable, i, AttributeNameKey)
		}
		decls[i] = AttributeDecl{Name: name}
	}

	return decls, nil
}

// buildAttributeTable maps each declared attribute name to its ordinal.
// Duplicate names are rejected so that the table size equals the declared count.
func buildAttributeTable(decls []AttributeDecl) (map[string]int, error) {
	table := make(map[string]int, len(decls))
	for i, decl := range decls {
		if prev, dup := table[decl.Name]; dup {
			return nil, fmt.Errorf("%w: %q declared at %d and %d", errs.ErrInvalidAttributeTable, decl.Name, prev, i)
		}
		table[decl.Name] = i
	}

	return table, nil
}
