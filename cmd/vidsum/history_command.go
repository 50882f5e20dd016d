package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/praneethvg/video-summarizer/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var filter store.Status
			if statusFilter != "" {
				parsed, ok := store.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				filter = parsed
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				if filter != "" && item.Status != filter {
					continue
				}
				result := item.SummaryPath
				if item.Status == store.StatusFailed {
					result = item.ErrorMessage
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Title,
					item.Provider,
					string(item.Status),
					item.UpdatedAt.Local().Format("2006-01-02 15:04"),
					result,
				})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items recorded.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Provider", "Status", "Updated", "Result"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of items to show")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show items with this status")
	return cmd
}
