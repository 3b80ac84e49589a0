package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/common"
	"quill/internal/posts"
	"quill/internal/render"
	"quill/internal/ui"
)

var (
	showOutputFile string
	showRaw        bool
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Render a post to HTML",
	Long: `Fetch a post's Markdown source and render it to HTML. Legacy
four-tilde code fences are honored alongside standard fenced blocks.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutputFile, "output", "o", "", "write HTML to a file instead of stdout")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the Markdown source without rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	source := posts.NewRemoteSource(newAPIClient(cfg), cfg.Blog)

	raw, err := source.Raw(ctx, args[0])
	if err != nil {
		return err
	}

	output := raw
	if !showRaw {
		output, err = render.Render(raw)
		if err != nil {
			return err
		}
	}

	if showOutputFile != "" {
		if err := os.WriteFile(showOutputFile, []byte(output), common.FilePermissionNormal); err != nil {
			return fmt.Errorf("failed to write %s: %w", showOutputFile, err)
		}
		ui.ShowSuccess(fmt.Sprintf("Wrote %s", showOutputFile))
		return nil
	}

	fmt.Print(output)
	return nil
}
