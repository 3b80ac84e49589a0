package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/github"
)

// initTestRepo creates a repository with two commits by different
// authors, each touching its own file.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(file, content, author, email, message string, when time.Time) {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, file)), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
		_, err := worktree.Add(file)
		require.NoError(t, err)
		_, err = worktree.Commit(message, &gogit.CommitOptions{
			Author: &object.Signature{Name: author, Email: email, When: when},
		})
		require.NoError(t, err)
	}

	commit("posts/first.md", "# First\n", "Ada Lovelace", "ada@example.com",
		"Add first post", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	commit("posts/second.md", "# Second\n", "Grace Hopper", "grace@example.com",
		"Add second post", time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC))

	return dir
}

func TestLatestCommitForPath(t *testing.T) {
	dir := initTestRepo(t)

	info, err := LatestCommitForPath(dir, "posts/first.md")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", info.Author)
	assert.Equal(t, "Add first post", info.Message)
	assert.Equal(t, "January 2, 2024 03:04 UTC", info.LastModified)
	assert.NotEmpty(t, info.OID)
}

func TestLatestCommitForPathPicksNewest(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "first.md"), []byte("# First, edited\n"), 0644))
	_, err = worktree.Add("posts/first.md")
	require.NoError(t, err)
	_, err = worktree.Commit("Revise first post", &gogit.CommitOptions{
		Author: &object.Signature{
			Name: "Grace Hopper", Email: "grace@example.com",
			When: time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	info, err := LatestCommitForPath(dir, "posts/first.md")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", info.Author)
	assert.Equal(t, "Revise first post", info.Message)
}

func TestLatestCommitForPathNoHistory(t *testing.T) {
	dir := initTestRepo(t)

	info, err := LatestCommitForPath(dir, "posts/never-committed.md")
	require.NoError(t, err)
	assert.Equal(t, github.SentinelUnknownTime, info.LastModified)
	assert.Equal(t, github.SentinelUnknown, info.Author)
	assert.Equal(t, github.SentinelNoHistory, info.Message)
}

func TestBatchLatestCommits(t *testing.T) {
	dir := initTestRepo(t)

	paths := []string{"posts/first.md", "posts/second.md", "posts/missing.md"}
	result, err := BatchLatestCommits(dir, paths)
	require.NoError(t, err)
	require.Len(t, result, len(paths))

	assert.Equal(t, "Ada Lovelace", result["posts/first.md"].Author)
	assert.Equal(t, "Grace Hopper", result["posts/second.md"].Author)
	assert.Equal(t, github.SentinelNoHistory, result["posts/missing.md"].Message)
}

func TestBatchLatestCommitsOpenFailure(t *testing.T) {
	_, err := BatchLatestCommits(t.TempDir(), []string{"posts/first.md"})
	assert.Error(t, err)
}

func TestMirrorLocalPath(t *testing.T) {
	m := NewMirrorAt("/tmp/cache")
	assert.Equal(t, filepath.Join("/tmp/cache", "octocat_blog"), m.localPath("octocat/blog"))
	assert.Equal(t, filepath.Join("/tmp/cache", "a_b_c"), m.localPath(`a/b\c`))
}
