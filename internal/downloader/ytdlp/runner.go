package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/services"
)

// Command is the default yt-dlp binary name resolved from PATH.
const Command = "yt-dlp"

// Runner executes yt-dlp. The command runner is injectable so tests can stub
// process execution.
type Runner struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewRunner constructs a runner for the given binary, defaulting to yt-dlp
// on PATH.
func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = Command
	}
	return &Runner{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Runner) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	r.commandRunner = runner
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.binary, args...)
	}
	cmd := exec.CommandContext(ctx, r.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, services.Wrap(services.ErrExternalTool, "download", r.binary, detail, err)
	}
	return stdout.Bytes(), nil
}

type subtitleTrack struct {
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

// Metadata is the subset of yt-dlp's JSON dump the pipeline consumes.
type Metadata struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Uploader          string                     `json:"uploader"`
	WebpageURL        string                     `json:"webpage_url"`
	Extractor         string                     `json:"extractor_key"`
	Duration          float64                    `json:"duration"`
	Subtitles         map[string][]subtitleTrack `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleTrack `json:"automatic_captions"`
}

// Probe fetches video metadata without downloading any media.
func (r *Runner) Probe(ctx context.Context, url string) (*Metadata, error) {
	out, err := r.run(ctx, "--no-warnings", "--skip-download", "-J", url)
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "download", "probe", "parse metadata", err)
	}
	if meta.ID == "" {
		return nil, services.Wrap(services.ErrExternalTool, "download", "probe", "metadata missing video id", nil)
	}
	return &meta, nil
}

// Info converts a probe into the downloader-facing metadata shape.
func (r *Runner) Info(ctx context.Context, url, provider string) (*downloader.VideoInfo, error) {
	meta, err := r.Probe(ctx, url)
	if err != nil {
		return nil, err
	}
	info := &downloader.VideoInfo{
		ID:       meta.ID,
		Title:    meta.Title,
		URL:      meta.WebpageURL,
		Provider: provider,
		Uploader: meta.Uploader,
		Duration: time.Duration(meta.Duration * float64(time.Second)),
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}

// DownloadAudio fetches the best audio track as mp3. outputPath is the
// destination without extension; the path written is returned.
func (r *Runner) DownloadAudio(ctx context.Context, url, outputPath string) (string, error) {
	if outputPath == "" {
		return "", services.Wrap(services.ErrValidation, "download", "audio", "output path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "download", "audio", "ensure output dir", err)
	}

	dest := outputPath + ".mp3"
	_, err := r.run(ctx,
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", outputPath+".%(ext)s",
		url,
	)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "download", "audio", "expected output missing", err)
	}
	return dest, nil
}

// DownloadCaptions fetches a caption track as SRT. auto selects yt-dlp's
// automatic captions instead of manual subtitles. Returns ErrNoCaptions when
// yt-dlp produced no file for the language.
func (r *Runner) DownloadCaptions(ctx context.Context, url, outputPath, lang string, auto bool) (string, error) {
	if outputPath == "" {
		return "", services.Wrap(services.ErrValidation, "download", "captions", "output path required", nil)
	}
	if lang == "" {
		lang = "en"
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "download", "captions", "ensure output dir", err)
	}

	subFlag := "--write-subs"
	if auto {
		subFlag = "--write-auto-subs"
	}
	_, err := r.run(ctx,
		"--no-warnings",
		"--no-playlist",
		"--skip-download",
		subFlag,
		"--sub-langs", lang,
		"--convert-subs", "srt",
		"-o", outputPath+".%(ext)s",
		url,
	)
	if err != nil {
		return "", err
	}

	// yt-dlp names the file <output>.<lang>.srt, sometimes with a region
	// suffix on the language.
	exact := fmt.Sprintf("%s.%s.srt", outputPath, lang)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}
	matches, _ := filepath.Glob(outputPath + "." + lang + "*.srt")
	if len(matches) > 0 {
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %s captions for %s", downloader.ErrNoCaptions, lang, url)
}

// FetchCaptions downloads a caption track with origin fallback. With
// preferManual set, manual subtitles are tried before automatic captions;
// otherwise automatic captions come first. ErrNoCaptions is returned only
// when both origins come up empty.
func (r *Runner) FetchCaptions(ctx context.Context, url, outputPath, lang string, preferManual bool) (string, error) {
	order := []bool{true, false}
	if preferManual {
		order = []bool{false, true}
	}
	var lastErr error
	for _, auto := range order {
		path, err := r.DownloadCaptions(ctx, url, outputPath, lang, auto)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, downloader.ErrNoCaptions) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// ListCaptions enumerates the caption tracks a video offers.
func (r *Runner) ListCaptions(ctx context.Context, url string) (*downloader.CaptionInventory, error) {
	meta, err := r.Probe(ctx, url)
	if err != nil {
		return nil, err
	}
	inventory := &downloader.CaptionInventory{}
	for lang, tracks := range meta.Subtitles {
		inventory.Manual = append(inventory.Manual, downloader.CaptionTrack{
			Language: lang,
			Name:     trackName(tracks),
		})
	}
	for lang, tracks := range meta.AutomaticCaptions {
		inventory.Automatic = append(inventory.Automatic, downloader.CaptionTrack{
			Language:  lang,
			Name:      trackName(tracks),
			Generated: true,
		})
	}
	sortTracks(inventory.Manual)
	sortTracks(inventory.Automatic)
	return inventory, nil
}

func trackName(tracks []subtitleTrack) string {
	for _, track := range tracks {
		if track.Name != "" {
			return track.Name
		}
	}
	return ""
}
