package git

import (
	"fmt"
	"io"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"quill/internal/github"
	"quill/pkg/models"
)

// LatestCommitForPath returns the newest commit touching path, shaped
// with the same sentinels the remote fetchers use.
func LatestCommitForPath(repoPath, path string) (models.CommitInfo, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return models.CommitInfo{}, fmt.Errorf("failed to open repository: %w", err)
	}
	return latestCommit(repo, path)
}

// BatchLatestCommits resolves commit metadata for every path from the
// local clone. Exactly one entry per path; a path whose lookup fails
// gets sentinel values instead of dropping out.
func BatchLatestCommits(repoPath string, paths []string) (models.CommitMap, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	result := make(models.CommitMap, len(paths))
	for _, path := range paths {
		info, err := latestCommit(repo, path)
		if err != nil {
			result[path] = models.CommitInfo{
				LastModified: github.SentinelUnknownTime,
				Author:       github.SentinelUnknown,
				Message:      github.SentinelNoFileData,
			}
			continue
		}
		result[path] = info
	}
	return result, nil
}

func latestCommit(repo *gogit.Repository, path string) (models.CommitInfo, error) {
	head, err := repo.Head()
	if err != nil {
		return models.CommitInfo{}, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	iter, err := repo.Log(&gogit.LogOptions{
		From:     head.Hash(),
		FileName: &path,
	})
	if err != nil {
		return models.CommitInfo{}, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err == io.EOF {
		return models.CommitInfo{
			LastModified: github.SentinelUnknownTime,
			Author:       github.SentinelUnknown,
			Message:      github.SentinelNoHistory,
		}, nil
	}
	if err != nil {
		return models.CommitInfo{}, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return shapeCommit(commit), nil
}

func shapeCommit(commit *object.Commit) models.CommitInfo {
	info := models.CommitInfo{
		LastModified: github.FormatTime(commit.Author.When),
		Author:       commit.Author.Name,
		Message:      strings.TrimSpace(commit.Message),
		OID:          commit.Hash.String(),
	}
	if info.Author == "" {
		info.Author = github.SentinelUnknownAuthor
	}
	if info.Message == "" {
		info.Message = github.SentinelNoMessage
	}
	return info
}
