package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"quill/pkg/errors"
	"quill/pkg/models"
)

// UserInfo fetches the authenticated account identity. A token is
// required; failures carry any reason string the API supplies.
func (c *Client) UserInfo(ctx context.Context) (*models.User, error) {
	if c.token == "" {
		return nil, errors.New(errors.ErrCodeAuthRequired,
			"an access token is required to fetch the authenticated user")
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("failed to fetch user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		message := fmt.Sprintf("failed to fetch user info: %s", resp.Status)
		if apiErr.Message != "" {
			message = fmt.Sprintf("%s (%s)", message, apiErr.Message)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.AuthError(message, nil)
		}
		return nil, errors.New(errors.ErrCodeAPIFailure, message)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &user, nil
}

// RateLimit fetches the current core API quota. Errors propagate to the
// caller unwrapped; there is no retry and no caching.
func (c *Client) RateLimit(ctx context.Context) (*models.RateLimit, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/rate_limit", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rate limit status: %s", resp.Status)
	}

	var parsed struct {
		Resources struct {
			Core models.RateLimit `json:"core"`
		} `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rate limit: %w", err)
	}
	return &parsed.Resources.Core, nil
}

// Contents fetches the raw file content at path on branch.
func (c *Client) Contents(ctx context.Context, owner, repo, path, branch string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.baseURL, owner, repo, encodePath(path), branch)

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.raw")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NetworkError(fmt.Sprintf("failed to fetch contents of %s", path), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.NotFoundError(path)
	case resp.StatusCode == http.StatusForbidden:
		return "", errors.AuthError(
			fmt.Sprintf("forbidden fetching contents of %s: missing or insufficient token scope", path), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", errors.New(errors.ErrCodeAPIFailure,
			fmt.Sprintf("failed to fetch contents: %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read contents of %s: %w", path, err)
	}
	return string(body), nil
}
