package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praneethvg/video-summarizer/internal/plugin"
)

func newPluginsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins and their load status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			app, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			loaded := make(map[string]struct{})
			for _, reg := range app.manager.Loaded() {
				loaded[reg.Descriptor.Name] = struct{}{}
			}

			rows := make([][]string, 0, 8)
			for _, desc := range app.manager.Discover() {
				status := "failed"
				if _, ok := loaded[desc.Name]; ok {
					status = "loaded"
				} else if !plugin.Enabled(desc.Name, cfg.Plugins) {
					status = "disabled"
				}
				rows = append(rows, []string{
					desc.Name,
					desc.Version,
					string(desc.Kind),
					desc.Description,
					status,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Version", "Kind", "Description", "Status"},
				rows,
				nil,
			))
			return nil
		},
	}
}
