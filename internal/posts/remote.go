package posts

import (
	"context"
	"path"

	"quill/internal/github"
	"quill/pkg/models"
)

// RemoteSource reads the index and post content through the hosting API,
// so the blog can be browsed without a local checkout.
type RemoteSource struct {
	client *github.Client
	blog   models.Blog
}

// NewRemoteSource creates a source over the configured repository
func NewRemoteSource(client *github.Client, blog models.Blog) *RemoteSource {
	return &RemoteSource{client: client, blog: blog}
}

// List fetches and parses the post index from the repository
func (s *RemoteSource) List(ctx context.Context) ([]models.Post, error) {
	data, err := s.client.Contents(ctx, s.blog.Owner, s.blog.Repo, s.indexPath(), s.blog.Branch)
	if err != nil {
		return nil, err
	}
	return parseIndex([]byte(data))
}

// Raw fetches a post's Markdown source from the repository
func (s *RemoteSource) Raw(ctx context.Context, postPath string) (string, error) {
	return s.client.Contents(ctx, s.blog.Owner, s.blog.Repo, postPath, s.blog.Branch)
}

func (s *RemoteSource) indexPath() string {
	if s.blog.Index != "" {
		return s.blog.Index
	}
	if s.blog.PostsDir != "" {
		return path.Join(s.blog.PostsDir, DefaultIndexFile)
	}
	return DefaultIndexFile
}
