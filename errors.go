package updatecheck

import (
	"errors"

	"github.com/rshade/updatecheck/internal/registry"
	"github.com/rshade/updatecheck/internal/version"
)

// Sentinel errors for structured handling with errors.Is. A Check that
// returns any of these still leaves the host application fully
// functional; they mean "could not determine update status", nothing more.
var (
	// ErrInvalidName indicates a package name that fails validation
	// (empty, too long, or containing disallowed characters).
	ErrInvalidName = errors.New("invalid package name")

	// ErrInvalidVersion indicates a string that does not parse as a
	// semantic version.
	ErrInvalidVersion = version.ErrInvalidVersion

	// ErrTimeout indicates the registry request exceeded the configured
	// timeout.
	ErrTimeout = registry.ErrTimeout

	// ErrNetwork indicates a transport failure or an unexpected registry
	// status.
	ErrNetwork = registry.ErrNetwork

	// ErrNotFound indicates the registry does not know the package.
	ErrNotFound = registry.ErrNotFound

	// ErrMalformedResponse indicates a registry response the latest
	// version could not be extracted from.
	ErrMalformedResponse = registry.ErrMalformedResponse
)
