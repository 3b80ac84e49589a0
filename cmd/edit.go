package cmd

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"quill/internal/posts"
	"quill/internal/ui"
)

var editDir string

var editCmd = &cobra.Command{
	Use:   "edit <path>",
	Short: "Edit a post in a local working copy",
	Long: `Open a post from a local working copy in your editor and save the
result back. Pushing the change is left to your normal git workflow.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editDir, "dir", ".", "working copy root containing the posts")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	source, err := posts.NewLocalSource(editDir, "")
	if err != nil {
		return err
	}

	path := args[0]
	current, err := source.Raw(context.Background(), path)
	if err != nil {
		return err
	}

	var edited string
	prompt := &survey.Editor{
		Message:       fmt.Sprintf("Editing %s", path),
		Default:       current,
		AppendDefault: true,
		HideDefault:   true,
		FileName:      "*.md",
	}
	if err := survey.AskOne(prompt, &edited); err != nil {
		return err
	}

	if edited == current {
		ui.ShowInfo("No changes made.")
		return nil
	}

	if err := source.Save(path, edited); err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("Saved %s", path))
	return nil
}
