package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"quill/internal/ui"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Show remaining API quota",
	RunE:  runLimits,
}

func init() {
	rootCmd.AddCommand(limitsCmd)
}

func runLimits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit, err := newAPIClient(cfg).RateLimit(context.Background())
	if err != nil {
		return err
	}

	reset := time.Unix(limit.Reset, 0)

	table := ui.NewTable()
	table.AddHeader("Limit", "Remaining", "Resets")
	table.AddRow(
		fmt.Sprintf("%d", limit.Limit),
		fmt.Sprintf("%d", limit.Remaining),
		humanize.Time(reset),
	)
	table.Render()

	if limit.Remaining == 0 {
		ui.ShowWarning("Rate limit exhausted; authenticated requests get a higher quota.")
	}
	return nil
}
