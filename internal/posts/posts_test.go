package posts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/github"
	"quill/pkg/models"
)

const testIndex = `posts:
  - title: "First Post"
    tags: [go, blogging]
    path: posts/first.md
  - title: "Second Post"
    tags: [notes]
    path: posts/second.md
`

func TestParseIndex(t *testing.T) {
	list, err := parseIndex([]byte(testIndex))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First Post", list[0].Title)
	assert.Equal(t, []string{"go", "blogging"}, list[0].Tags)
	assert.Equal(t, "posts/first.md", list[0].Path)
}

func TestParseIndexInvalid(t *testing.T) {
	_, err := parseIndex([]byte("posts: {not a list"))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	list, err := parseIndex([]byte(testIndex))
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/first.md", "posts/second.md"}, Paths(list))
}

func TestLocalSourceListAndRaw(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.yaml"), []byte(testIndex), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "first.md"), []byte("# First\n"), 0644))

	source, err := NewLocalSource(dir, "")
	require.NoError(t, err)

	list, err := source.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	raw, err := source.Raw(context.Background(), "posts/first.md")
	require.NoError(t, err)
	assert.Equal(t, "# First\n", raw)
}

func TestLocalSourceMissingPost(t *testing.T) {
	dir := t.TempDir()
	source, err := NewLocalSource(dir, "")
	require.NoError(t, err)

	_, err = source.Raw(context.Background(), "posts/nope.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posts/nope.md")
}

func TestLocalSourceRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	source, err := NewLocalSource(dir, "")
	require.NoError(t, err)

	_, err = source.Raw(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalSourceSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	source, err := NewLocalSource(dir, "")
	require.NoError(t, err)

	require.NoError(t, source.Save("posts/new.md", "# New\n\nbody\n"))

	raw, err := source.Raw(context.Background(), "posts/new.md")
	require.NoError(t, err)
	assert.Equal(t, "# New\n\nbody\n", raw)
}

func TestRemoteSourceList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octocat/blog/contents/posts/posts.yaml":
			_, _ = w.Write([]byte(testIndex))
		case "/repos/octocat/blog/contents/posts/first.md":
			_, _ = w.Write([]byte("# First\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := github.NewClientWithBaseURLs(server.Client(), server.URL, "", "")
	source := NewRemoteSource(client, models.Blog{
		Owner: "octocat", Repo: "blog", Branch: "main", PostsDir: "posts",
	})

	list, err := source.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	raw, err := source.Raw(context.Background(), "posts/first.md")
	require.NoError(t, err)
	assert.Equal(t, "# First\n", raw)
}
