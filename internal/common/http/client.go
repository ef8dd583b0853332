// internal/common/http/client.go
package http

import (
	"encoding/base64"
	"net/http"
	"time"
)

// Credentials are attached to every outbound request by the client transport.
type Credentials struct {
	APIKey     string
	OnBehalfOf string
}

// BasicToken returns base64(apiKey + ":"), the Harvest basic-auth token.
func (c Credentials) BasicToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.APIKey + ":"))
}

type Client struct {
	httpClient *http.Client
}

// NewCredentialedClient returns a client whose transport injects creds into every request.
func NewCredentialedClient(timeout time.Duration, creds Credentials, base http.RoundTripper) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &credentialTransport{creds: creds, base: base},
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

type credentialTransport struct {
	creds Credentials
	base  http.RoundTripper
}

// RoundTrip clones the request so callers never observe the injected headers.
func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Basic "+t.creds.BasicToken())
	out.Header.Set("On-Behalf-Of", t.creds.OnBehalfOf)
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}
	return t.base.RoundTrip(out)
}
