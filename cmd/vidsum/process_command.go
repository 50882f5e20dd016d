package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praneethvg/video-summarizer/internal/store"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var urlsFlag []string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Download, transcribe, and summarize one or more video URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, urlsFlag...)
			if urlFlag != "" {
				urls = append([]string{urlFlag}, urls...)
			}
			urls = append(urls, args...)
			if len(urls) == 0 {
				return fmt.Errorf("at least one URL required (--url, --urls, or arguments)")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateForSummarization(); err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := buildApp(runCtx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.runner.AcquireLock(); err != nil {
				return err
			}
			defer app.runner.ReleaseLock()

			// One URL failing never stops the rest of the batch.
			rows := make([][]string, 0, len(urls))
			failures := 0
			for _, url := range urls {
				item, err := app.runner.ProcessURL(runCtx, url)
				switch {
				case err != nil && item == nil:
					failures++
					rows = append(rows, []string{url, "", string(store.StatusFailed), err.Error()})
				case err != nil:
					failures++
					rows = append(rows, []string{url, item.Title, string(item.Status), item.ErrorMessage})
				default:
					rows = append(rows, []string{url, item.Title, string(item.Status), item.SummaryPath})
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"URL", "Title", "Status", "Result"},
				rows,
				nil,
			))
			if failures > 0 {
				return fmt.Errorf("%d of %d URLs failed", failures, len(urls))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Video URL to process")
	cmd.Flags().StringSliceVar(&urlsFlag, "urls", nil, "Comma-separated list of video URLs")
	return cmd
}
