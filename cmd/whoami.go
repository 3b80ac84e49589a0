package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	user, err := newAPIClient(cfg).UserInfo(context.Background())
	if err != nil {
		return err
	}

	table := ui.NewTable()
	table.AddHeader("Login", "Name")
	table.AddRow(user.Login, user.Name)
	table.Render()

	fmt.Println()
	ui.ShowSuccess("Token is valid.")
	return nil
}
