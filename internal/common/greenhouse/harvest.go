package greenhouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	relayhttp "application-relay/internal/common/http"
)

const (
	OpCreateCandidate = "create_candidate"
	OpAddApplication  = "add_application"
	OpDeleteCandidate = "delete_candidate"

	maxErrorBodyBytes = 64 << 10
	maxDetailText     = 2048
)

// APIError is returned for any non-2xx Harvest response.
type APIError struct {
	Operation  string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("greenhouse %s failed (status %d)", e.Operation, e.StatusCode)
}

// Details returns the remote body in a client-safe form: parsed JSON when the
// body is JSON, otherwise truncated text. Any of secrets found in the body is
// replaced before it leaves the relay.
func (e *APIError) Details(secrets ...string) interface{} {
	body := string(e.Body)
	for _, s := range secrets {
		if s != "" {
			body = strings.ReplaceAll(body, s, "[REDACTED]")
		}
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	if len(body) > maxDetailText {
		body = body[:maxDetailText]
	}
	return body
}

type Options struct {
	BaseURL     string
	Credentials relayhttp.Credentials
	Timeout     time.Duration
	Transport   http.RoundTripper
}

// Client talks to the Harvest candidate endpoints with injected credentials.
type Client struct {
	baseURL    string
	httpClient *relayhttp.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: relayhttp.NewCredentialedClient(timeout, opts.Credentials, opts.Transport),
	}
}

// CreateCandidate issues POST /candidates.
func (c *Client) CreateCandidate(ctx context.Context, candidate *CandidateRequest) (*Candidate, error) {
	var created Candidate
	if err := c.do(ctx, OpCreateCandidate, http.MethodPost, "/candidates", candidate, &created); err != nil {
		return nil, err
	}
	if created.ID == 0 {
		return nil, fmt.Errorf("create candidate: response has no candidate id")
	}
	return &created, nil
}

// AddApplication issues POST /candidates/{id}/applications.
func (c *Client) AddApplication(ctx context.Context, candidateID int64, application *ApplicationRequest) (*Application, error) {
	path := fmt.Sprintf("/candidates/%d/applications", candidateID)

	var created Application
	if err := c.do(ctx, OpAddApplication, http.MethodPost, path, application, &created); err != nil {
		return nil, err
	}
	if created.ID == 0 {
		return nil, fmt.Errorf("add application: response has no application id")
	}
	return &created, nil
}

// DeleteCandidate issues DELETE /candidates/{id}. An empty success body is accepted.
func (c *Client) DeleteCandidate(ctx context.Context, candidateID int64) (*DeleteResponse, error) {
	path := fmt.Sprintf("/candidates/%d", candidateID)

	var resp DeleteResponse
	if err := c.do(ctx, OpDeleteCandidate, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal payload: %w", op, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Body: errBody}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	if method == http.MethodDelete && len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: failed to unmarshal response: %w", op, err)
	}
	return nil
}
