package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"quill/pkg/errors"
	"quill/pkg/models"
)

const (
	defaultPerPage = 100
	maxPerPage     = 500
)

// FileCommits returns the latest commit touching path on branch, newest
// first, at most one record. Errors propagate to the caller.
func (c *Client) FileCommits(ctx context.Context, owner, repo, path, branch string) ([]models.CommitRecord, error) {
	records, _, err := c.fileCommitsPage(ctx, owner, repo, path, branch, 1, 1)
	return records, err
}

// BatchFileCommits fetches the full commit history for every path,
// concurrently across paths, sequentially across each path's pages. The
// result has exactly one entry per input path, in input order; a path's
// failure is recorded in its own entry and never affects the others.
func (c *Client) BatchFileCommits(ctx context.Context, owner, repo string, paths []string, branch string, perPage int) []models.PathCommits {
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	results := make([]models.PathCommits, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			// Each goroutine writes only its own slot.
			results[i] = c.collectFileCommits(ctx, owner, repo, path, branch, perPage)
		}(i, path)
	}
	wg.Wait()

	return results
}

// collectFileCommits paginates one path's history. Page N+1 is requested
// only after page N resolves: the continuation indicator lives in the
// previous response.
func (c *Client) collectFileCommits(ctx context.Context, owner, repo, path, branch string, perPage int) models.PathCommits {
	result := models.PathCommits{Path: path}

	for page := 1; ; page++ {
		records, hasNext, err := c.fileCommitsPage(ctx, owner, repo, path, branch, perPage, page)
		if err != nil {
			return models.PathCommits{Path: path, Err: err.Error()}
		}
		if len(records) == 0 {
			break
		}
		result.Commits = append(result.Commits, records...)
		result.Total += len(records)
		if !hasNext {
			break
		}
	}

	return result
}

// fileCommitsPage fetches one page of a path's commit history. hasNext
// reflects the Link header's rel="next" relation.
func (c *Client) fileCommitsPage(ctx context.Context, owner, repo, path, branch string, perPage, page int) ([]models.CommitRecord, bool, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?path=%s&ref=%s&per_page=%d&page=%d",
		c.baseURL, owner, repo, encodePath(path), url.QueryEscape(branch), perPage, page)

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, errors.NetworkError(fmt.Sprintf("failed to fetch commits for %s", path), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, errors.NotFoundError(path)
	case resp.StatusCode == http.StatusForbidden:
		return nil, false, errors.AuthError(
			fmt.Sprintf("forbidden fetching commits for %s: missing or insufficient token scope", path), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, false, errors.New(errors.ErrCodeAPIFailure,
			fmt.Sprintf("failed to fetch commits: %s", resp.Status))
	}

	var records []models.CommitRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, false, fmt.Errorf("decode commits for %s: %w", path, err)
	}

	return records, hasNextPage(resp.Header.Get("Link")), nil
}

// encodePath percent-encodes each path segment individually and rejoins
// with "/", so spaces and non-ASCII characters survive the trip.
func encodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.QueryEscape(segment)
	}
	return strings.Join(segments, "/")
}

// CommitInfoFromRecords shapes one path's REST history result into
// display metadata, substituting sentinels so the result is always
// well formed. errMsg is the per-path failure recorded during the
// batch fetch, empty on success.
func CommitInfoFromRecords(records []models.CommitRecord, errMsg string) models.CommitInfo {
	if errMsg != "" {
		return models.CommitInfo{
			LastModified: SentinelQueryFailed,
			Author:       SentinelUnknown,
			Message:      errMsg,
		}
	}

	if len(records) == 0 {
		return models.CommitInfo{
			LastModified: SentinelUnknownTime,
			Author:       SentinelUnknown,
			Message:      SentinelNoHistory,
		}
	}

	rec := records[0]
	info := models.CommitInfo{
		LastModified: formatCommitTime(rec.Commit.Author.Date),
		Author:       rec.Commit.Author.Name,
		Message:      rec.Commit.Message,
		OID:          rec.SHA,
	}
	if info.Author == "" {
		info.Author = SentinelUnknownAuthor
	}
	if info.Message == "" {
		info.Message = SentinelNoMessage
	}
	return info
}

// hasNextPage reports whether a Link header advertises a rel="next" page.
func hasNextPage(link string) bool {
	for _, part := range strings.Split(link, ",") {
		if strings.Contains(part, `rel="next"`) {
			return true
		}
	}
	return false
}
