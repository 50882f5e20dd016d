package ytdlp

import (
	"sort"

	"github.com/praneethvg/video-summarizer/internal/downloader"
)

// sortTracks orders caption tracks by language code so probe output is
// stable across runs regardless of JSON map iteration order.
func sortTracks(tracks []downloader.CaptionTrack) {
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].Language < tracks[j].Language
	})
}
