package posts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"quill/internal/common"
	"quill/pkg/errors"
	"quill/pkg/models"
)

// LocalSource reads posts from a working copy on disk. The index file
// lives at the root of the posts directory.
type LocalSource struct {
	dir       string
	indexFile string
}

// NewLocalSource creates a source over a posts directory
func NewLocalSource(dir, indexFile string) (*LocalSource, error) {
	cleaned, err := common.CleanPath(dir)
	if err != nil {
		return nil, errors.ConfigError("invalid posts directory", "posts_dir")
	}
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}
	return &LocalSource{dir: cleaned, indexFile: indexFile}, nil
}

// List loads the post index
func (s *LocalSource) List(ctx context.Context) ([]models.Post, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, s.indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound,
				fmt.Sprintf("post index %s not found in %s", s.indexFile, s.dir))
		}
		return nil, fmt.Errorf("failed to read post index: %w", err)
	}
	return parseIndex(data)
}

// Raw returns a post's Markdown source
func (s *LocalSource) Raw(ctx context.Context, path string) (string, error) {
	validated, err := common.ValidatePath(filepath.Join(s.dir, path), s.dir)
	if err != nil {
		return "", errors.ValidationError("path", path, err.Error())
	}

	data, err := os.ReadFile(validated) // #nosec G304 - path is validated
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFoundError(path)
		}
		return "", fmt.Errorf("failed to read post %s: %w", path, err)
	}
	return string(data), nil
}

// Save writes edited post content back to the working copy
func (s *LocalSource) Save(path, content string) error {
	validated, err := common.ValidatePath(filepath.Join(s.dir, path), s.dir)
	if err != nil {
		return errors.ValidationError("path", path, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(validated), common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create post directory: %w", err)
	}
	if err := os.WriteFile(validated, []byte(content), common.FilePermissionNormal); err != nil {
		return fmt.Errorf("failed to save post %s: %w", path, err)
	}
	return nil
}
