package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/downloader/ytdlp"
	"github.com/praneethvg/video-summarizer/internal/language"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "captions <url>",
		Short: "List the caption tracks a video offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]

			registry, err := buildRegistry(ytdlp.NewRunner(""))
			if err != nil {
				return err
			}
			source, err := registry.Resolve(url)
			if err != nil {
				return err
			}

			inventory, err := source.ListCaptions(cmd.Context(), url)
			if err != nil {
				return err
			}
			if inventory.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No captions available.")
				return nil
			}

			rows := make([][]string, 0, len(inventory.Manual)+len(inventory.Automatic))
			appendTracks := func(tracks []downloader.CaptionTrack, origin string) {
				for _, track := range tracks {
					name := track.Name
					if name == "" {
						name = language.DisplayName(track.Language)
					}
					rows = append(rows, []string{track.Language, name, origin})
				}
			}
			appendTracks(inventory.Manual, "manual")
			appendTracks(inventory.Automatic, "automatic")

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language", "Origin"},
				rows,
				nil,
			))
			return nil
		},
	}
}
