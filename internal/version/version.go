// Package version wraps semantic-version parsing and ordering for the
// update checker. It is a thin layer over Masterminds/semver: parse
// failures come back as wrapped errors, never panics, and comparison
// follows standard semver precedence (major, minor, patch, then
// pre-release tags sorting below their corresponding release).
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates a string that does not parse as a semantic
// version.
var ErrInvalidVersion = errors.New("invalid semantic version")

// Parse parses text as a semantic version. Leading/trailing whitespace and
// a leading "v" are tolerated.
func Parse(text string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}
	return v, nil
}

// IsNewer reports whether candidate is strictly greater than current under
// semver precedence.
func IsNewer(candidate, current *semver.Version) bool {
	return candidate.GreaterThan(current)
}

// IsPrerelease reports whether v carries a pre-release tag.
func IsPrerelease(v *semver.Version) bool {
	return v.Prerelease() != ""
}
