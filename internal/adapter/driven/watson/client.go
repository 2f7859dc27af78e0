// Package watson implements the Authenticator and Predictor ports against a
// hosted model deployment fronted by a cloud IAM token endpoint.
package watson

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Authenticator = (*Client)(nil)
	_ driven.Predictor     = (*Client)(nil)
)

// apiKeyGrantType is the IAM grant that exchanges an API key for an access token.
const apiKeyGrantType = "urn:ibm:params:oauth:grant-type:apikey"

// maxErrorBody bounds how much of an error response body is kept for logging.
const maxErrorBody = 512

// Client calls the identity and scoring endpoints. It holds no tokens; every
// call to Authenticate hits the identity endpoint.
type Client struct {
	http       *http.Client
	iamURL     string
	scoringURL string
}

// NewClient creates a Client with its own http.Client using the given timeout.
func NewClient(iamURL, scoringURL string, timeout time.Duration) (*Client, error) {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, iamURL, scoringURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// Tests use it to point both endpoints at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, iamURL, scoringURL string) (*Client, error) {
	for _, raw := range []string{iamURL, scoringURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing endpoint URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("endpoint URL %q: scheme must be http or https", raw)
		}
	}

	return &Client{
		http:       httpClient,
		iamURL:     iamURL,
		scoringURL: scoringURL,
	}, nil
}

// do sends req and converts network failures and non-2xx statuses into
// *driven.TransportError. On success the caller owns resp.Body.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &driven.TransportError{Op: op, URL: req.URL.Redacted(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &driven.TransportError{
			Op:         op,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body: %q", body),
		}
	}

	return resp, nil
}
