package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/sources"
)

func newTargetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Inspect the listing pages the scraped sync visits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured scrape targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			targets := sources.DefaultTargets()
			if cfg.Sync.TargetsFile != "" {
				if targets, err = sources.LoadTargets(cfg.Sync.TargetsFile); err != nil {
					return err
				}
			}
			renderTargets(cmd.OutOrStdout(), targets)
			return nil
		},
	})
	return cmd
}

func renderTargets(w io.Writer, targets []domain.Target) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Category", "URL"})
	for i, target := range targets {
		t.AppendRow(table.Row{i + 1, target.Category, target.URL})
	}
	t.AppendFooter(table.Row{"", "Total", len(targets)})
	t.Render()
}
