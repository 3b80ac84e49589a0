package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/ui"
	"quill/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	ui.ShowHeader("Quill Setup")
	fmt.Println()

	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := &models.Config{}

	fmt.Println("Blog repository")
	fmt.Println("---------------")

	blogQs := []*survey.Question{
		{
			Name: "owner",
			Prompt: &survey.Input{
				Message: "Repository owner (user or organization):",
			},
			Validate: survey.Required,
		},
		{
			Name: "repo",
			Prompt: &survey.Input{
				Message: "Repository name:",
			},
			Validate: survey.Required,
		},
		{
			Name: "branch",
			Prompt: &survey.Input{
				Message: "Branch:",
				Default: "main",
			},
			Validate: survey.Required,
		},
		{
			Name: "postsdir",
			Prompt: &survey.Input{
				Message: "Posts directory (empty for repository root):",
			},
		},
	}

	if err := survey.Ask(blogQs, &cfg.Blog); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("API access")
	fmt.Println("----------")

	var token string
	tokenPrompt := &survey.Password{
		Message: "API token (empty for anonymous access):",
	}
	if err := survey.AskOne(tokenPrompt, &token); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if token != "" {
		store, err := auth.NewTokenStore()
		if err != nil {
			ui.ShowWarning(fmt.Sprintf("Credential store unavailable: %v", err))
			cfg.API.Token = token
		} else if err := store.SetToken(token); err != nil {
			ui.ShowWarning(fmt.Sprintf("Could not store token securely: %v", err))
			cfg.API.Token = token
		}
	}

	if err := config.Save(cfg); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	fmt.Println()
	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", config.GetConfigFile()))
	fmt.Println("Run 'quill list' to browse posts.")
}
