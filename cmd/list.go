package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"quill/internal/git"
	"quill/internal/github"
	"quill/internal/posts"
	"quill/internal/ui"
	"quill/pkg/models"
)

var (
	listUseREST   bool
	listUseLocal  bool
	listBatchSize int
	listPerPage   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List blog posts with commit metadata",
	Long: `List every post from the blog index together with when it was last
modified and by whom. Metadata comes from batched aggregate queries by
default; --rest walks the commit history endpoint instead, and --local
reads from a synced mirror without touching the API.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listUseREST, "rest", false, "fetch metadata through the commit history endpoint")
	listCmd.Flags().BoolVar(&listUseLocal, "local", false, "read posts and metadata from a local mirror")
	listCmd.Flags().IntVar(&listBatchSize, "batch-size", 0, "paths per aggregate query (default 100)")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "history page size for --rest (default 100, max 500)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if listUseLocal {
		return listFromMirror(ctx, cfg)
	}

	client := newAPIClient(cfg)
	source := posts.NewRemoteSource(client, cfg.Blog)

	list, err := source.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ui.ShowInfo("The index lists no posts.")
		return nil
	}

	paths := posts.Paths(list)

	spinner := ui.NewSpinner(fmt.Sprintf("Fetching commit metadata for %d posts...", len(paths)))
	spinner.Start()

	var commits models.CommitMap
	if listUseREST {
		commits = make(models.CommitMap, len(paths))
		for _, pc := range client.BatchFileCommits(ctx, cfg.Blog.Owner, cfg.Blog.Repo, paths, cfg.Blog.Branch, listPerPage) {
			commits[pc.Path] = github.CommitInfoFromRecords(pc.Commits, pc.Err)
		}
	} else {
		commits = client.FileCommitsGraphQL(ctx, cfg.Blog.Owner, cfg.Blog.Repo, cfg.Blog.Branch, paths, listBatchSize)
	}

	spinner.Stop(true, "Commit metadata fetched")

	renderPostTable(list, commits)
	return nil
}

// listFromMirror lists posts from a synced clone, resolving metadata
// from local history instead of the API.
func listFromMirror(ctx context.Context, cfg *models.Config) error {
	name := cfg.Blog.Owner + "/" + cfg.Blog.Repo
	gitURL := fmt.Sprintf("https://github.com/%s.git", name)

	mirror := git.NewMirror()

	spinner := ui.NewSpinner(fmt.Sprintf("Syncing mirror of %s...", name))
	spinner.Start()

	repoPath, err := mirror.Sync(ctx, name, gitURL, cfg.Blog.Branch)
	if err != nil {
		spinner.Stop(false, "Mirror sync failed")
		return err
	}
	spinner.Stop(true, "Mirror up to date")

	// Index paths are repo-relative, so the source roots at the clone.
	source, err := posts.NewLocalSource(repoPath, indexPath(cfg.Blog))
	if err != nil {
		return err
	}

	list, err := source.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ui.ShowInfo("The index lists no posts.")
		return nil
	}

	commits, err := git.BatchLatestCommits(repoPath, posts.Paths(list))
	if err != nil {
		return err
	}

	renderPostTable(list, commits)
	return nil
}

// indexPath resolves where the post index lives inside the repository.
func indexPath(blog models.Blog) string {
	if blog.Index != "" {
		return blog.Index
	}
	if blog.PostsDir != "" {
		return path.Join(blog.PostsDir, posts.DefaultIndexFile)
	}
	return posts.DefaultIndexFile
}

// renderPostTable prints the post listing with metadata columns.
func renderPostTable(list []models.Post, commits models.CommitMap) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Title", "Tags", "Last Modified", "Age", "Author"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, post := range list {
		info := commits[post.Path]

		table.Append([]string{
			color.CyanString(post.Title),
			strings.Join(post.Tags, ", "),
			info.LastModified,
			relativeAge(info.LastModified),
			info.Author,
		})
	}

	fmt.Println()
	table.Render()
}

// relativeAge derives a human age from shaped metadata; sentinel values
// yield an empty column.
func relativeAge(lastModified string) string {
	t, err := github.ParseTime(lastModified)
	if err != nil {
		return ""
	}
	return humanize.Time(t)
}
