package downloader

import (
	"context"
	"errors"
	"time"
)

// ErrNoCaptions signals that the video exposes no caption track matching the
// request. Callers fall back to local transcription.
var ErrNoCaptions = errors.New("no captions available")

// VideoInfo describes a resolved video before any download work starts.
type VideoInfo struct {
	ID       string
	Title    string
	URL      string
	Provider string
	Uploader string
	Duration time.Duration
}

// CaptionTrack is one subtitle track offered by the source.
type CaptionTrack struct {
	Language string
	Name     string
	// Generated marks machine-produced tracks, for example YouTube's
	// automatic captions.
	Generated bool
}

// CaptionInventory lists the caption tracks a video offers, split by origin.
type CaptionInventory struct {
	Manual    []CaptionTrack
	Automatic []CaptionTrack
}

// Empty reports whether no caption tracks exist at all.
func (ci *CaptionInventory) Empty() bool {
	return ci == nil || (len(ci.Manual) == 0 && len(ci.Automatic) == 0)
}

// Languages returns the distinct language codes across both track kinds,
// manual tracks first, preserving source order.
func (ci *CaptionInventory) Languages() []string {
	if ci == nil {
		return nil
	}
	seen := make(map[string]struct{})
	langs := make([]string, 0, len(ci.Manual)+len(ci.Automatic))
	for _, track := range ci.Manual {
		if _, ok := seen[track.Language]; ok {
			continue
		}
		seen[track.Language] = struct{}{}
		langs = append(langs, track.Language)
	}
	for _, track := range ci.Automatic {
		if _, ok := seen[track.Language]; ok {
			continue
		}
		seen[track.Language] = struct{}{}
		langs = append(langs, track.Language)
	}
	return langs
}

// Downloader is implemented by each video source integration.
type Downloader interface {
	// Name identifies the source ("youtube", "vimeo").
	Name() string
	// CanHandle reports whether the URL belongs to this source. It must be
	// cheap and side-effect free.
	CanHandle(url string) bool
	// Info fetches metadata without downloading media.
	Info(ctx context.Context, url string) (*VideoInfo, error)
	// DownloadAudio fetches the audio track and returns the path written.
	// outputName is the base name without extension.
	DownloadAudio(ctx context.Context, url, outputName string) (string, error)
	// DownloadCaptions fetches a caption track in the requested language and
	// returns the path written. With preferManual set, manual tracks are
	// tried before automatic ones. Returns ErrNoCaptions when the video has
	// no matching track.
	DownloadCaptions(ctx context.Context, url, outputName, lang string, preferManual bool) (string, error)
	// ListCaptions enumerates the caption tracks the video offers.
	ListCaptions(ctx context.Context, url string) (*CaptionInventory, error)
}
