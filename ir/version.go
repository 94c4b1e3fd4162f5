package ir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arloliu/clpir/errs"
)

// versionRegex is the semantic version grammar (semver.org) with a leading "v".
var versionRegex = regexp.MustCompile(
	`^v(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
		`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// ValidateVersion checks a stream's protocol version against the newest
// version the decoder supports.
//
// LegacyProtocolVersion is always accepted. Any other version must be a
// "v"-prefixed semantic version, must not be greater than supported, and must
// not have a smaller major version than supported.
//
// Both comparisons are plain string comparisons, not numeric semver
// precedence: "v0.10.0" compares less than "v0.9.0". Deployed streams and
// decoders rely on this ordering, so it is kept as-is.
//
// Returns:
//   - errs.ErrInvalidVersion if version is not a semantic version
//   - errs.ErrTooNew if version > supported
//   - errs.ErrTooOld if major(supported) > major(version)
func ValidateVersion(version, supported string) error {
	if version == LegacyProtocolVersion {
		return nil
	}
	if !versionRegex.MatchString(version) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidVersion, version)
	}
	if supported < version {
		return fmt.Errorf("%w: %s (supported: %s)", errs.ErrTooNew, version, supported)
	}
	if majorVersion(supported) > majorVersion(version) {
		return fmt.Errorf("%w: %s (supported: %s)", errs.ErrTooOld, version, supported)
	}

	return nil
}

// majorVersion returns the "vMAJOR" prefix of a version string.
func majorVersion(version string) string {
	major, _, _ := strings.Cut(version, ".")
	return major
}
