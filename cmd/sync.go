package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pruthviraj-chavan/happytools1/internal/bootstrap"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/syncer"
)

var syncKinds = []string{
	string(domain.RunKindAll),
	string(domain.RunKindProductHunt),
	string(domain.RunKindScraped),
	string(domain.RunKindTrending),
}

func newSyncCommand() *cobra.Command {
	var (
		timeout     time.Duration
		delay       time.Duration
		placeholder bool
	)

	cmd := &cobra.Command{
		Use:       "sync [all|producthunt|scraped|trending]",
		Short:     "Run one sync and print the result",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: syncKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.RunKindAll
			if len(args) == 1 {
				kind = domain.RunKind(args[0])
			}

			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("delay") {
				cfg.Sync.Delay = delay
			}
			if cmd.Flags().Changed("placeholders") {
				cfg.Sync.PlaceholderOnEmpty = placeholder
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{Memory: viper.GetBool("memory")})
			if err != nil {
				return err
			}
			defer app.Close()

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			report := app.Orchestrator.Run(ctx, kind)
			renderReport(cmd.OutOrStdout(), report)
			if report.Err != nil {
				return fmt.Errorf("sync %s: %w", kind, report.Err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the run after this long (0 disables)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "override the delay between listing page fetches")
	cmd.Flags().BoolVar(&placeholder, "placeholders", false, "store a placeholder for targets that yield nothing")
	return cmd
}

func renderReport(w io.Writer, report *syncer.Report) {
	if len(report.Targets) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Category", "URL", "State", "Found", "Rejected", "Error"})

		for _, out := range report.Targets {
			errText := ""
			if out.Err != nil {
				errText = out.Err.Error()
			}
			t.AppendRow(table.Row{out.Target.Category, out.Target.URL, out.State, out.Found, out.Rejected, errText})
		}
		t.Render()
	}

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"Kind", "Synced", "Updated", "Found", "Rejected", "Store Errors", "Failed Targets"})
	summary.AppendRow(table.Row{
		report.Kind,
		report.Synced,
		report.Updated,
		report.TotalFound,
		report.Rejected,
		report.StoreErrors,
		report.FailedTargets(),
	})
	summary.Render()
}
