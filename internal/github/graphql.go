package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quill/pkg/errors"
	"quill/pkg/models"
)

// Sentinel values substituted when real commit data is unavailable, so
// every requested path still yields a well-formed CommitInfo.
const (
	SentinelQueryFailed   = "query failed"
	SentinelUnknownTime   = "unknown time"
	SentinelUnknown       = "unknown"
	SentinelUnknownAuthor = "unknown author"
	SentinelNoFileData    = "no file data found"
	SentinelNoHistory     = "no commit history"
	SentinelNoMessage     = "(no commit message)"
)

const (
	defaultBatchSize = 100
	// Error summaries embedded in per-path messages are cut to this length.
	errSummaryLen = 30

	commitTimeLayout = "January 2, 2006 15:04 MST"
)

// blobHistory is the aliased per-path selection in a batch response.
type blobHistory struct {
	LatestCommit struct {
		Nodes []struct {
			OID           string `json:"oid"`
			Message       string `json:"message"`
			CommittedDate string `json:"committedDate"`
			Author        struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"nodes"`
	} `json:"latestCommit"`
}

// FileCommitsGraphQL resolves the latest commit for every path through
// batched aggregate queries. Batches run strictly sequentially so at most
// one aggregate query is in flight per invocation; a batch's failure
// marks only its own paths. The returned map holds exactly one entry per
// input path.
func (c *Client) FileCommitsGraphQL(ctx context.Context, owner, repo, branch string, paths []string, batchSize int) models.CommitMap {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	result := make(models.CommitMap, len(paths))

	for batchIndex, batch := range partitionPaths(paths, batchSize) {
		query := buildBatchQuery(owner, repo, branch, batchIndex, batch)

		blobs, err := c.postGraphQL(ctx, query)
		if err != nil {
			summary := errors.TruncateMessage(err.Error(), errSummaryLen)
			for _, path := range batch {
				result[path] = models.CommitInfo{
					LastModified: SentinelQueryFailed,
					Author:       SentinelUnknown,
					Message:      "batch query failed: " + summary,
				}
			}
			continue
		}

		for position, path := range batch {
			result[path] = commitInfoFromBlob(blobs[alias(batchIndex, position)])
		}
	}

	return result
}

// partitionPaths slices paths into consecutive, non-overlapping batches
// of at most size entries, covering the input exactly once in order.
func partitionPaths(paths []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		batches = append(batches, paths[start:end])
	}
	return batches
}

// alias generates the field alias for a path. Injective over
// (batch, position), so no two paths in one query can collide.
func alias(batch, position int) string {
	return fmt.Sprintf("f%d_%d", batch, position)
}

// buildBatchQuery synthesizes one aggregate query selecting, for every
// path in the batch, the blob at branch:path and its most recent history
// entry.
func buildBatchQuery(owner, repo, branch string, batchIndex int, batch []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `query { repository(owner: "%s", name: "%s") {`,
		escapeGraphQLString(owner), escapeGraphQLString(repo))

	for position, path := range batch {
		expression := escapeGraphQLString(branch + ":" + path)
		fmt.Fprintf(&b,
			` %s: object(expression: "%s") { ... on Blob { latestCommit: history(first: 1) { nodes { oid message committedDate author { name } } } } }`,
			alias(batchIndex, position), expression)
	}

	b.WriteString(" } }")
	return b.String()
}

// escapeGraphQLString escapes every character that is significant inside
// a GraphQL string literal, not just double quotes.
var graphqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeGraphQLString(s string) string {
	return graphqlEscaper.Replace(s)
}

// postGraphQL executes one aggregate query and returns the aliased
// per-path selections. A transport failure, non-2xx status or missing
// repository object fails the whole batch.
func (c *Client) postGraphQL(ctx context.Context, query string) (map[string]*blobHistory, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("graphql request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrCodeGraphQLFailure,
			fmt.Sprintf("graphql query failed: %s", resp.Status))
	}

	var parsed struct {
		Data struct {
			Repository map[string]*blobHistory `json:"repository"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}

	if parsed.Data.Repository == nil {
		if len(parsed.Errors) > 0 {
			return nil, errors.New(errors.ErrCodeGraphQLFailure, parsed.Errors[0].Message)
		}
		return nil, errors.New(errors.ErrCodeGraphQLFailure, "no repository data in response")
	}

	return parsed.Data.Repository, nil
}

// commitInfoFromBlob shapes one aliased selection into CommitInfo. A nil
// blob means the alias was absent or null: the path has no object at the
// branch ref.
func commitInfoFromBlob(blob *blobHistory) models.CommitInfo {
	if blob == nil {
		return models.CommitInfo{
			LastModified: SentinelUnknownTime,
			Author:       SentinelUnknown,
			Message:      SentinelNoFileData,
		}
	}

	nodes := blob.LatestCommit.Nodes
	if len(nodes) == 0 {
		return models.CommitInfo{
			LastModified: SentinelUnknownTime,
			Author:       SentinelUnknown,
			Message:      SentinelNoHistory,
		}
	}

	node := nodes[0]
	info := models.CommitInfo{
		LastModified: formatCommitTime(node.CommittedDate),
		Author:       node.Author.Name,
		Message:      node.Message,
		OID:          node.OID,
	}
	if info.Author == "" {
		info.Author = SentinelUnknownAuthor
	}
	if info.Message == "" {
		info.Message = SentinelNoMessage
	}
	return info
}

// FormatTime renders a commit timestamp in the fixed long display
// layout shared by the remote and local metadata paths.
func FormatTime(t time.Time) string {
	return t.Format(commitTimeLayout)
}

// ParseTime is the inverse of FormatTime, for callers that derive
// relative ages from already-shaped metadata.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(commitTimeLayout, s)
}

// formatCommitTime renders a committed timestamp as a long date+time
// string; an unparseable value passes through untouched.
func formatCommitTime(committed string) string {
	t, err := time.Parse(time.RFC3339, committed)
	if err != nil {
		if committed == "" {
			return SentinelUnknownTime
		}
		return committed
	}
	return FormatTime(t)
}
