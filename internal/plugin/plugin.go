package plugin

import (
	"context"
	"log/slog"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/events"
)

// Kind classifies what role a plugin plays in the pipeline.
type Kind string

const (
	// KindProvider marks plugins that accept URLs and start processing.
	KindProvider Kind = "provider"
	// KindProcessor marks plugins that react to pipeline events.
	KindProcessor Kind = "processor"
)

// Descriptor identifies a plugin in the registration table.
type Descriptor struct {
	Name        string
	Version     string
	Description string
	Author      string
	Kind        Kind
	// EntryPoint is the factory key recorded for operator-facing listings.
	EntryPoint string
}

// Deps carries the shared services a factory may wire into its plugin.
type Deps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Registry   *downloader.Registry
	Dispatcher *events.Dispatcher
}

// Factory instantiates a plugin from its settings block. Factories must be
// side-effect free until called.
type Factory func(deps Deps, settings map[string]any) (Plugin, error)

// Plugin is the contract every loaded plugin satisfies.
type Plugin interface {
	// Info returns the descriptor the plugin was registered under.
	Info() Descriptor
	// SubscribedEvents lists the event types the plugin wants delivered.
	SubscribedEvents() []events.Type
	// Handle processes one delivered event.
	Handle(ctx context.Context, env events.Envelope) error
}

// Provider is a plugin that accepts URLs directly.
type Provider interface {
	Plugin
	CanHandle(url string) bool
	ProcessURL(ctx context.Context, url string) error
}
