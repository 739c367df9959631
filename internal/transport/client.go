// Package transport provides the authenticated HTTP client shared by
// all remote service calls. Every request carries the bearer token and
// the protocol-version header the remote API requires.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/docsync/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = 30 * time.Second

// VersionHeader names the protocol-version header the remote API
// requires on every request.
const VersionHeader = "Notion-Version"

// Client provides HTTP client functionality with authentication and
// protocol-version headers applied to every request.
type Client struct {
	http    *http.Client
	auth    Authenticator
	token   string
	version string
}

// New creates a transport client using bearer authentication.
func New(token, version string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    &BearerAuth{},
		token:   token,
		version: version,
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests use this
// to point at an httptest server with a short timeout).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Do issues a request with authentication, version, and JSON headers
// applied. A non-nil body is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WrapIO("create", method+" "+url, err)
	}

	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	if c.version != "" {
		req.Header.Set(VersionHeader, c.version)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{Endpoint: url, Message: "request failed", Err: err}
	}
	return resp, nil
}

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become APIError; a 429 additionally carries the
// server-suggested Retry-After duration so callers can back off.
func DecodeResponse(resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &errors.APIError{
			Endpoint:   resp.Request.URL.Path,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.RetryAfter = retryAfterSeconds(resp)
		}
		return apiErr
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// retryAfterSeconds reads the server-suggested wait from the
// Retry-After header. 0 means the server did not suggest one.
func retryAfterSeconds(resp *http.Response) float64 {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
