// Package git maintains local mirrors of the blog repository and
// resolves commit metadata from them, so listings keep working without
// API access.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"quill/internal/common"
	"quill/pkg/errors"
)

// Mirror manages cached clones of blog repositories
type Mirror struct {
	cacheDir string
}

// NewMirror creates a mirror over the default cache directory
func NewMirror() *Mirror {
	home, _ := os.UserHomeDir()
	return &Mirror{cacheDir: filepath.Join(home, ".quill", "repos")}
}

// NewMirrorAt creates a mirror over an explicit cache directory
func NewMirrorAt(dir string) *Mirror {
	return &Mirror{cacheDir: dir}
}

// Sync clones or updates the repository and returns its local path.
// Network operations retry with backoff; this is the one place in quill
// that retries at all.
func (m *Mirror) Sync(ctx context.Context, name, gitURL, branch string) (string, error) {
	localPath := m.localPath(name)

	err := errors.RetryWithBackoff(ctx, func(ctx context.Context) error {
		if err := cloneOrFetch(gitURL, localPath); err != nil {
			if strings.Contains(err.Error(), "connection") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "unreachable") {
				return errors.New(errors.ErrCodeNetworkUnavailable,
					"Network error while syncing repository").
					WithContext("repository", name).
					WithContext("url", gitURL).
					AsRecoverable()
			}

			if strings.Contains(err.Error(), "authentication") ||
				strings.Contains(err.Error(), "unauthorized") {
				return errors.New(errors.ErrCodeForbidden,
					"Authentication failed for repository").
					WithContext("repository", name).
					WithSuggestions(
						"Check your Git credentials",
						"Ensure you have access to the repository",
					)
			}

			return errors.Wrap(err, errors.ErrCodeRepoSyncFailed,
				fmt.Sprintf("Failed to sync repository %s", name))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if branch != "" && branch != "main" && branch != "master" {
		if err := checkoutBranch(localPath, branch); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeRepoSyncFailed,
				fmt.Sprintf("Failed to checkout branch %s", branch)).
				WithContext("branch", branch).
				WithSuggestions(fmt.Sprintf("Verify branch '%s' exists", branch))
		}
	}

	return localPath, nil
}

// localPath returns the cache location for a repository
func (m *Mirror) localPath(name string) string {
	safeName := strings.ReplaceAll(name, "/", "_")
	safeName = strings.ReplaceAll(safeName, "\\", "_")
	return filepath.Join(m.cacheDir, safeName)
}

// cloneOrFetch clones a repository or fetches updates if it already exists
func cloneOrFetch(gitURL, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if _, err := os.Stat(filepath.Join(localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repository: %w", err)
		}

		remote, err := repo.Remote("origin")
		if err != nil {
			return fmt.Errorf("failed to get remote: %w", err)
		}

		err = remote.Fetch(&gogit.FetchOptions{
			Auth:     getAuthMethod(gitURL),
			Progress: os.Stderr,
		})
		if err != nil && err != gogit.NoErrAlreadyUpToDate {
			return fmt.Errorf("failed to fetch updates: %w", err)
		}
		return nil
	}

	_, err := gogit.PlainClone(localPath, false, &gogit.CloneOptions{
		URL:      gitURL,
		Auth:     getAuthMethod(gitURL),
		Progress: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	return nil
}

// checkoutBranch switches the working copy to a branch
func checkoutBranch(repoPath, branch string) error {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}
	return nil
}

// getAuthMethod returns the appropriate auth method based on the URL
func getAuthMethod(gitURL string) transport.AuthMethod {
	if strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://") {
		sshKeyPath := filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		if _, err := os.Stat(sshKeyPath); err == nil {
			auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, "")
			if err == nil {
				return auth
			}
		}
	}

	if strings.HasPrefix(gitURL, "https://") {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			return &http.BasicAuth{
				Username: "token",
				Password: token,
			}
		}
	}

	return nil
}
