package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/downloader/vimeo"
	"github.com/praneethvg/video-summarizer/internal/downloader/youtube"
	"github.com/praneethvg/video-summarizer/internal/downloader/ytdlp"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
	"github.com/praneethvg/video-summarizer/internal/notifications"
	"github.com/praneethvg/video-summarizer/internal/pipeline"
	"github.com/praneethvg/video-summarizer/internal/plugin"
	"github.com/praneethvg/video-summarizer/internal/plugins"
	"github.com/praneethvg/video-summarizer/internal/store"
	"github.com/praneethvg/video-summarizer/internal/summarizer"
	"github.com/praneethvg/video-summarizer/internal/transcriber"
)

// app bundles the wired subsystems a command needs. Close releases the
// history store.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	registry   *downloader.Registry
	dispatcher *events.Dispatcher
	manager    *plugin.Manager
	runner     *pipeline.Runner
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing history store", slog.String("error", err.Error()))
		}
	}
}

// buildRegistry wires the yt-dlp backed downloaders in their canonical
// order: specific sources first.
func buildRegistry(runner *ytdlp.Runner) (*downloader.Registry, error) {
	registry := downloader.NewRegistry()
	for _, d := range []downloader.Downloader{youtube.New(runner), vimeo.New(runner)} {
		if err := registry.Register(d); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// buildApp assembles the full pipeline: store, registry, dispatcher,
// processors, and plugins, in that order, so the built-in processors sit
// ahead of plugin subscribers for every event type.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	registry, err := buildRegistry(ytdlp.NewRunner(""))
	if err != nil {
		st.Close()
		return nil, err
	}
	dispatcher := events.NewDispatcher(logger)

	manager, err := plugin.NewManager(plugin.Deps{
		Logger:     logger,
		Config:     cfg,
		Registry:   registry,
		Dispatcher: dispatcher,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := plugins.RegisterBuiltins(manager); err != nil {
		st.Close()
		return nil, fmt.Errorf("register plugins: %w", err)
	}

	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:      cfg,
		Logger:      logger,
		Store:       st,
		Registry:    registry,
		Dispatcher:  dispatcher,
		Manager:     manager,
		Notifier:    notifications.NewService(cfg),
		Transcriber: transcriber.NewService(cfg.Whisper, ""),
		Summarizer: summarizer.NewClient(summarizer.Config{
			APIKey:         cfg.OpenAI.APIKey,
			BaseURL:        cfg.OpenAI.BaseURL,
			Model:          cfg.OpenAI.Model,
			TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
		}),
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	manager.Load(ctx, manager.Discover(), cfg.Plugins)

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		registry:   registry,
		dispatcher: dispatcher,
		manager:    manager,
		runner:     runner,
	}, nil
}
