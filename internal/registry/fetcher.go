// Package registry queries the package registry's latest-version endpoint.
//
// One call issues exactly one HTTP GET; there are no retries at this
// layer. Failures are classified into sentinel errors so the orchestrator
// can distinguish a timeout from an unknown package from a garbled
// response.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rshade/updatecheck/internal/logging"
)

const (
	// DefaultBaseURL is the registry's package metadata endpoint. The
	// latest version for a package lives at <DefaultBaseURL>/<name>.
	DefaultBaseURL = "https://crates.io/api/v1/crates"

	// DefaultTimeout bounds a fetch when the caller sets no timeout.
	DefaultTimeout = 5 * time.Second

	// versionPath is the response field holding the latest published
	// version.
	versionPath = "crate.newest_version"

	// maxResponseBytes caps how much of the response body is read. The
	// metadata document is a few KB; anything near this limit is not a
	// registry response.
	maxResponseBytes = 1 << 20

	userAgent = "updatecheck (+https://github.com/rshade/updatecheck)"
)

// Sentinel errors for structured handling of fetch failures.
var (
	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("registry request timed out")

	// ErrNetwork indicates a transport failure or an unexpected status.
	ErrNetwork = errors.New("registry request failed")

	// ErrNotFound indicates the registry does not know the package.
	ErrNotFound = errors.New("package not found in registry")

	// ErrMalformedResponse indicates a response body the version could
	// not be extracted from.
	ErrMalformedResponse = errors.New("malformed registry response")
)

// Fetcher queries the latest published version of a package over an
// injected HTTP transport.
type Fetcher struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewFetcher creates a fetcher for the given registry base URL. Empty
// baseURL, non-positive timeout, and nil client fall back to defaults.
func NewFetcher(baseURL string, timeout time.Duration, client *http.Client) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  client,
	}
}

// FetchLatest issues one GET against the registry and returns the latest
// published version string for the named package.
func (f *Fetcher) FetchLatest(ctx context.Context, name string) (string, error) {
	log := logging.FromContext(ctx)

	requestURL := f.baseURL + "/" + url.PathEscape(name)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err, f.timeout)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError(err, f.timeout)
	}

	result := gjson.GetBytes(body, versionPath)
	if result.Type != gjson.String {
		return "", fmt.Errorf("%w: %s field missing", ErrMalformedResponse, versionPath)
	}

	latest := strings.TrimSpace(result.String())
	if latest == "" {
		return "", fmt.Errorf("%w: empty version string", ErrMalformedResponse)
	}

	log.Debug().
		Str("component", "registry").
		Str("package", name).
		Str("latest", latest).
		Msg("fetched latest version")

	return latest, nil
}

// classifyTransportError maps a transport-level failure to ErrTimeout or
// ErrNetwork.
func classifyTransportError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
