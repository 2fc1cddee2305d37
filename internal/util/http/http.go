// Package http provides the shared HTTP client used to reach remote services.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/jmylchreest/brandstream/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "brandstream"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the default number of retries after a transport failure.
	DefaultRetries = 2
)

// ClientOptions configures the shared client.
type ClientOptions struct {
	// Timeout specifies the per-attempt request timeout.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// Retries is the number of extra attempts after a transport failure.
	// Negative disables retries.
	Retries int

	// Logger receives retry diagnostics. Nil discards them.
	Logger hclog.Logger
}

// UserAgent returns the User-Agent header value.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", UserAgentName, version.Version)
}

// NewClient returns a retrying client. Only transport failures are retried:
// the extraction service reports its own errors with 4xx/5xx statuses and a
// JSON body, and those must reach the caller untouched.
func NewClient(opts ClientOptions) *retryablehttp.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: timeout}
	client.RetryMax = max(opts.Retries, 0)
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.CheckRetry = TransportOnlyRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// The default logger writes to stderr, which the terminal UI owns.
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}

	return client
}

// TransportOnlyRetryPolicy retries when no response was received at all.
func TransportOnlyRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}

// Fetch retrieves content from a URL using client.
// It sets the User-Agent header and treats any non-200 status as an error.
func Fetch(ctx context.Context, client *retryablehttp.Client, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
