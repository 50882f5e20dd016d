// Package youtube implements the YouTube downloader on top of the shared
// yt-dlp runner.
package youtube

import (
	"context"
	"regexp"

	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/downloader/ytdlp"
)

// ProviderName is the registry and provenance name for this source.
const ProviderName = "youtube"

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.|m\.)?youtube\.com/watch\?.*v=[\w-]{11}`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]{11}`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/shorts/[\w-]{11}`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/embed/[\w-]{11}`),
}

var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|shorts/|embed/)([\w-]{11})`)

// Downloader handles YouTube watch, short-link, shorts, and embed URLs.
type Downloader struct {
	runner *ytdlp.Runner
}

// New constructs a YouTube downloader backed by the runner.
func New(runner *ytdlp.Runner) *Downloader {
	if runner == nil {
		runner = ytdlp.NewRunner("")
	}
	return &Downloader{runner: runner}
}

func (d *Downloader) Name() string { return ProviderName }

func (d *Downloader) CanHandle(url string) bool {
	for _, pattern := range urlPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// VideoID extracts the 11-character video identifier, or "" when the URL
// carries none.
func VideoID(url string) string {
	if m := videoIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

func (d *Downloader) Info(ctx context.Context, url string) (*downloader.VideoInfo, error) {
	return d.runner.Info(ctx, url, ProviderName)
}

func (d *Downloader) DownloadAudio(ctx context.Context, url, outputName string) (string, error) {
	return d.runner.DownloadAudio(ctx, url, outputName)
}

func (d *Downloader) DownloadCaptions(ctx context.Context, url, outputName, lang string, preferManual bool) (string, error) {
	return d.runner.FetchCaptions(ctx, url, outputName, lang, preferManual)
}

func (d *Downloader) ListCaptions(ctx context.Context, url string) (*downloader.CaptionInventory, error) {
	return d.runner.ListCaptions(ctx, url)
}
