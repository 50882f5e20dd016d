// Package providers contains the provider plugins that accept URLs and kick
// off processing by publishing discovery events.
package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/praneethvg/video-summarizer/internal/downloader/vimeo"
	"github.com/praneethvg/video-summarizer/internal/downloader/youtube"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
	"github.com/praneethvg/video-summarizer/internal/plugin"
)

// YouTubeDescriptor identifies the YouTube provider plugin.
var YouTubeDescriptor = plugin.Descriptor{
	Name:        "youtube",
	Version:     "1.0.0",
	Description: "Accepts YouTube URLs and starts processing",
	Author:      "video-summarizer",
	Kind:        plugin.KindProvider,
	EntryPoint:  "providers.NewYouTube",
}

// VimeoDescriptor identifies the Vimeo provider plugin.
var VimeoDescriptor = plugin.Descriptor{
	Name:        "vimeo",
	Version:     "1.0.0",
	Description: "Accepts Vimeo URLs and starts processing",
	Author:      "video-summarizer",
	Kind:        plugin.KindProvider,
	EntryPoint:  "providers.NewVimeo",
}

// Provider publishes a discovery event for each URL its source accepts. The
// download processor picks the event up and drives the rest of the chain.
type Provider struct {
	desc    plugin.Descriptor
	deps    plugin.Deps
	logger  *slog.Logger
	matches func(url string) bool
}

// NewYouTube is the YouTube provider factory.
func NewYouTube(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
	return newProvider(YouTubeDescriptor, deps, youtube.New(nil).CanHandle)
}

// NewVimeo is the Vimeo provider factory.
func NewVimeo(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
	return newProvider(VimeoDescriptor, deps, vimeo.New(nil).CanHandle)
}

func newProvider(desc plugin.Descriptor, deps plugin.Deps, matches func(string) bool) (plugin.Plugin, error) {
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("%s: dispatcher required", desc.Name)
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("%s: downloader registry required", desc.Name)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Provider{
		desc:    desc,
		deps:    deps,
		logger:  logging.WithComponent(logger, desc.Name),
		matches: matches,
	}, nil
}

func (p *Provider) Info() plugin.Descriptor         { return p.desc }
func (p *Provider) SubscribedEvents() []events.Type { return nil }

func (p *Provider) Handle(ctx context.Context, env events.Envelope) error {
	return nil
}

func (p *Provider) CanHandle(url string) bool {
	return p.matches(url)
}

// ProcessURL resolves the URL through the downloader registry, fetches its
// metadata, and publishes the discovery event that starts the pipeline.
func (p *Provider) ProcessURL(ctx context.Context, url string) error {
	d, err := p.deps.Registry.Resolve(url)
	if err != nil {
		return err
	}
	info, err := d.Info(ctx, url)
	if err != nil {
		return err
	}

	p.logger.Info("video discovered",
		slog.String("video_id", info.ID),
		slog.String("title", info.Title))
	env := events.NewEnvelope(events.TypeVideoDiscovered, p.desc.Name, events.VideoDiscovered{
		URL:      url,
		VideoID:  info.ID,
		Title:    info.Title,
		Provider: info.Provider,
	})
	result := p.deps.Dispatcher.Publish(ctx, env)
	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("%s: %d of %d handlers failed, first: %w",
			p.desc.Name, len(failed), len(result.Deliveries), failed[0].Err)
	}
	return nil
}
