package updatecheck

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/rshade/updatecheck/internal/cache"
	"github.com/rshade/updatecheck/internal/logging"
	"github.com/rshade/updatecheck/internal/registry"
	"github.com/rshade/updatecheck/internal/version"
)

const (
	// EnvDisable is the opt-out switch: any non-empty value disables
	// update checking for the process. It is read once, when a Checker is
	// constructed, and seeds the Disabled flag; WithDisabled overrides it
	// either way.
	EnvDisable = "UPDATECHECK_DISABLE"

	// DefaultCacheTTL is how long a cached registry answer stands in for
	// a fresh fetch.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultTimeout bounds the registry request.
	DefaultTimeout = 5 * time.Second

	// maxNameLength is the registry's package-name limit.
	maxNameLength = 64
)

// UpdateInfo describes an available update. It is only ever constructed
// with Latest strictly newer than Current under semver precedence.
type UpdateInfo struct {
	// Current is the currently running version, as configured.
	Current string

	// Latest is the canonical form of the latest published version.
	Latest string
}

// Checker holds the configuration for one update check. It is immutable
// after New returns and safe to discard after a single Check call, which
// is the intended use.
type Checker struct {
	name              string
	current           string
	cacheTTL          time.Duration
	timeout           time.Duration
	cachePath         string
	cachePathSet      bool
	registryURL       string
	includePrerelease bool
	disabled          bool
	logger            zerolog.Logger
	httpClient        *http.Client
}

// Option configures a Checker at construction time.
type Option func(*Checker)

// WithCacheTTL sets how long a cached answer is reused. Zero disables the
// cache: every call fetches fresh. Defaults to DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		c.cacheTTL = ttl
	}
}

// WithTimeout sets the registry request timeout. Defaults to
// DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		c.timeout = timeout
	}
}

// WithCachePath overrides the cache file location, which otherwise
// resolves under the user cache directory. An empty path disables
// caching.
func WithCachePath(path string) Option {
	return func(c *Checker) {
		c.cachePath = path
		c.cachePathSet = true
	}
}

// WithRegistryURL overrides the registry base URL. The latest version for
// a package is fetched from <base>/<name>.
func WithRegistryURL(base string) Option {
	return func(c *Checker) {
		c.registryURL = base
	}
}

// WithIncludePrerelease includes pre-release versions in update checks.
// By default a pre-release latest version is reported as "no update".
func WithIncludePrerelease(include bool) Option {
	return func(c *Checker) {
		c.includePrerelease = include
	}
}

// WithDisabled sets the opt-out flag explicitly, overriding whatever
// EnvDisable said when the Checker was constructed. A disabled Checker
// returns (nil, nil) without touching the cache or the network.
func WithDisabled(disabled bool) Option {
	return func(c *Checker) {
		c.disabled = disabled
	}
}

// WithLogger attaches a structured logger. The library is silent without
// one.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithHTTPClient injects the HTTP client used for the registry request,
// for hosts that need custom transports or proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// New creates a Checker for the named package and its currently running
// version. The opt-out environment variable is consulted here, once, so
// Check itself is a pure function of the configuration.
func New(name, current string, opts ...Option) *Checker {
	c := &Checker{
		name:     name,
		current:  current,
		cacheTTL: DefaultCacheTTL,
		timeout:  DefaultTimeout,
		disabled: os.Getenv(EnvDisable) != "",
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether a newer version is available. It returns a
// non-nil *UpdateInfo when the latest published version is strictly newer
// than the current one, (nil, nil) when there is no update (or checking
// is disabled), and (nil, err) when no answer could be determined.
//
// At most one file read, one network round trip, and one file write
// happen per call, strictly in that order. A cache write failure is
// logged and does not affect the returned result.
func (c *Checker) Check(ctx context.Context) (*UpdateInfo, error) {
	if c.disabled {
		return nil, nil
	}

	if err := validateName(c.name); err != nil {
		return nil, err
	}
	current, err := version.Parse(c.current)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}

	ctx = logging.WithContext(ctx, c.logger)
	store := cache.NewStore(c.resolveCachePath())

	if rec, ok := store.Read(); ok && rec.Fresh(c.name, c.cacheTTL) {
		if latest, parseErr := version.Parse(rec.Latest); parseErr == nil {
			c.logger.Debug().
				Str("component", "checker").
				Str("package", c.name).
				Str("latest", latest.String()).
				Msg("using cached latest version")
			return c.compare(current, latest), nil
		}
		// An unparseable cached version degrades to a refetch.
	}

	fetcher := registry.NewFetcher(c.registryURL, c.timeout, c.httpClient)
	fetched, err := fetcher.FetchLatest(ctx, c.name)
	if err != nil {
		return nil, err
	}

	latest, err := version.Parse(fetched)
	if err != nil {
		return nil, fmt.Errorf("%w: registry reported version %q", ErrMalformedResponse, fetched)
	}

	if store.Path() != "" {
		if writeErr := store.Write(cache.NewRecord(c.name, latest.String())); writeErr != nil {
			// Best-effort: the in-memory answer stands regardless.
			c.logger.Warn().
				Str("component", "cache").
				Str("path", store.Path()).
				Err(writeErr).
				Msg("cache write failed")
		}
	}

	return c.compare(current, latest), nil
}

// compare applies the prerelease filter and the semver ordering to
// produce the final answer.
func (c *Checker) compare(current, latest *semver.Version) *UpdateInfo {
	if !c.includePrerelease && version.IsPrerelease(latest) {
		return nil
	}
	if !version.IsNewer(latest, current) {
		return nil
	}
	return &UpdateInfo{
		Current: c.current,
		Latest:  latest.String(),
	}
}

// resolveCachePath returns the configured cache file path, or the default
// under the user cache directory when none was set.
func (c *Checker) resolveCachePath() string {
	if c.cachePathSet {
		return c.cachePath
	}
	return cache.DefaultPath(c.name)
}

// validateName checks a package name against the registry's naming rules:
// non-empty, at most 64 characters, a leading ASCII letter, then only
// ASCII alphanumerics, '-', or '_'.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	if !isLetter(rune(name[0])) {
		return fmt.Errorf("%w: name must start with a letter, got %q", ErrInvalidName, rune(name[0]))
	}
	for _, ch := range name {
		if !isLetter(ch) && !isDigit(ch) && ch != '-' && ch != '_' {
			return fmt.Errorf("%w: disallowed character %q", ErrInvalidName, ch)
		}
	}
	return nil
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Check is a one-shot convenience with default settings: 24h cache TTL,
// 5s timeout, cache file under the user cache directory.
func Check(name, current string) (*UpdateInfo, error) {
	return New(name, current).Check(context.Background())
}
