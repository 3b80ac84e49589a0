package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/github"
	"quill/internal/ui"
	"quill/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Read a Markdown blog from your terminal",
	Long:  "Quill - a client for Markdown blogs hosted in a Git repository, with commit metadata from the hosting API",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(config.GetConfigPath())

	viper.SetEnvPrefix("quill")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config is fine; setup creates one
	}
}

// loadConfig reads the persisted configuration, failing with a setup
// hint when none exists. Values viper discovered (a config.yaml in the
// working directory, or QUILL_* environment variables) override the
// persisted ones.
func loadConfig() (*models.Config, error) {
	if !config.Exists() {
		return nil, fmt.Errorf("no configuration found, run 'quill setup' first")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	return cfg, nil
}

// applyOverrides folds viper-discovered settings over the persisted
// configuration. The token is deliberately excluded: viper would see
// its encrypted ENC[...] envelope, which only config.Load can open.
func applyOverrides(cfg *models.Config) {
	if v := viper.GetString("blog.branch"); v != "" {
		cfg.Blog.Branch = v
	}
	if v := viper.GetString("blog.posts_dir"); v != "" {
		cfg.Blog.PostsDir = v
	}
	if v := viper.GetString("api.base_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("api.graphql_url"); v != "" {
		cfg.API.GraphQLURL = v
	}
}

// apiToken resolves the token from the credential store, falling back
// to the config file entry.
func apiToken(cfg *models.Config) string {
	if store, err := auth.NewTokenStore(); err == nil {
		if token, err := store.Token(); err == nil && token != "" {
			return token
		}
	}
	return cfg.API.Token
}

// newAPIClient builds a hosting API client from the configuration.
func newAPIClient(cfg *models.Config) *github.Client {
	token := apiToken(cfg)
	if cfg.API.BaseURL != "" || cfg.API.GraphQLURL != "" {
		return github.NewClientWithBaseURLs(nil, cfg.API.BaseURL, cfg.API.GraphQLURL, token)
	}
	return github.NewClient(nil, token)
}
