// Package github is the hosting-API client behind quill: commit metadata
// lookups over REST and GraphQL, raw file contents, and account probes.
package github

import (
	"context"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL    = "https://api.github.com"
	defaultGraphQLURL = "https://api.github.com/graphql"

	// Sent on every outbound request; the API rejects unidentified clients.
	userAgent = "quill-blog-client"
)

// Client talks to a GitHub-compatible hosting API. It is stateless: no
// caches, no counters, every call is a pure function of its arguments
// plus the remote response.
type Client struct {
	baseURL    string
	graphqlURL string
	token      string
	httpClient *http.Client
}

// NewClient creates a client against the public API. The token is
// optional; unauthenticated calls work within the anonymous rate limit.
func NewClient(httpClient *http.Client, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    defaultBaseURL,
		graphqlURL: defaultGraphQLURL,
		token:      token,
		httpClient: httpClient,
	}
}

// NewClientWithBaseURLs allows overriding the endpoints (useful for tests
// and self-hosted installations).
func NewClientWithBaseURLs(httpClient *http.Client, baseURL, graphqlURL, token string) *Client {
	c := NewClient(httpClient, token)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	if graphqlURL != "" {
		c.graphqlURL = graphqlURL
	}
	return c
}

// newRequest builds a request carrying the identification and auth
// headers required on every call.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	return req, nil
}
