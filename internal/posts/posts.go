// Package posts loads the blog's post index and raw post content, either
// from a local working copy or through the hosting API.
package posts

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"quill/pkg/models"
)

// DefaultIndexFile is the index location used when the configuration
// does not name one.
const DefaultIndexFile = "posts.yaml"

// Source provides the post index and raw Markdown content. The view
// layer depends only on this interface.
type Source interface {
	List(ctx context.Context) ([]models.Post, error)
	Raw(ctx context.Context, path string) (string, error)
}

// parseIndex decodes a posts.yaml document into the post list.
func parseIndex(data []byte) ([]models.Post, error) {
	var index struct {
		Posts []models.Post `yaml:"posts"`
	}
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse post index: %w", err)
	}
	return index.Posts, nil
}

// Paths extracts the commit-lookup keys from a post list, in order.
func Paths(list []models.Post) []string {
	paths := make([]string, len(list))
	for i, post := range list {
		paths[i] = post.Path
	}
	return paths
}
