package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
	"github.com/praneethvg/video-summarizer/internal/notifications"
	"github.com/praneethvg/video-summarizer/internal/plugin"
	"github.com/praneethvg/video-summarizer/internal/services"
	"github.com/praneethvg/video-summarizer/internal/store"
)

// Runner wires the processors into the dispatcher and drives URL processing.
// Runs sharing a workspace are serialized through a lock file so two
// invocations never fight over temp and output paths.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	registry   *downloader.Registry
	dispatcher *events.Dispatcher
	manager    *plugin.Manager
	lock       *flock.Flock
}

// Options collects the collaborators a runner needs.
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	Store       *store.Store
	Registry    *downloader.Registry
	Dispatcher  *events.Dispatcher
	Manager     *plugin.Manager
	Notifier    notifications.Service
	Transcriber Transcriber
	Summarizer  Summarizer
}

// NewRunner subscribes the three built-in processors, in chain order, and
// returns the runner. Plugins loaded afterwards subscribe behind them.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("pipeline: config required")
	}
	for name, missing := range map[string]bool{
		"store":       opts.Store == nil,
		"registry":    opts.Registry == nil,
		"dispatcher":  opts.Dispatcher == nil,
		"transcriber": opts.Transcriber == nil,
		"summarizer":  opts.Summarizer == nil,
	} {
		if missing {
			return nil, fmt.Errorf("pipeline: %s required", name)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(opts.Config)
	}

	deps := processorDeps{
		cfg:        opts.Config,
		logger:     logging.WithComponent(logger, "pipeline"),
		store:      opts.Store,
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		notifier:   notifier,
	}
	processors := []events.Handler{
		&downloadProcessor{processorDeps: deps},
		&transcriptionProcessor{processorDeps: deps, transcriber: opts.Transcriber},
		&summarizationProcessor{processorDeps: deps, summarizer: opts.Summarizer},
	}
	types := []events.Type{
		events.TypeVideoDiscovered,
		events.TypeVideoDownloaded,
		events.TypeTranscriptGenerated,
	}
	for i, processor := range processors {
		if err := opts.Dispatcher.Subscribe(types[i], processor); err != nil {
			return nil, fmt.Errorf("pipeline: subscribe %s: %w", processor.Name(), err)
		}
	}

	return &Runner{
		cfg:        opts.Config,
		logger:     deps.logger,
		store:      opts.Store,
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		manager:    opts.Manager,
		lock:       flock.New(filepath.Join(opts.Config.Paths.LogDir, "vidsum.lock")),
	}, nil
}

// AcquireLock claims the workspace lock, failing fast when another run holds
// it.
func (r *Runner) AcquireLock() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another run is already processing this workspace")
	}
	return nil
}

// ReleaseLock releases the workspace lock.
func (r *Runner) ReleaseLock() error {
	return r.lock.Unlock()
}

// ProcessURL drives one URL through the full chain and returns the final
// history item. The publish cascade is synchronous, so when this returns the
// item is either completed or failed.
func (r *Runner) ProcessURL(ctx context.Context, url string) (*store.Item, error) {
	d, err := r.registry.Resolve(url)
	if err != nil {
		return nil, err
	}

	item, err := r.store.NewItem(ctx, url)
	if err != nil {
		return nil, err
	}
	ctx = services.WithItemID(ctx, item.ID)

	info, err := d.Info(ctx, url)
	if err != nil {
		item.SetFailed(err.Error())
		if updateErr := r.store.Update(ctx, item); updateErr != nil {
			r.logger.Error("failed to persist failure", slog.String("error", updateErr.Error()))
		}
		return item, err
	}
	item.VideoID = info.ID
	item.Title = info.Title
	item.Provider = info.Provider
	if err := r.store.Update(ctx, item); err != nil {
		return item, err
	}

	r.logger.Info("processing url",
		slog.Int64("item_id", item.ID),
		slog.String("provider", item.Provider),
		slog.String("video_id", item.VideoID))
	result := r.dispatcher.Publish(ctx, events.NewEnvelope(events.TypeVideoDiscovered, "runner", events.VideoDiscovered{
		ItemID:   item.ID,
		URL:      url,
		VideoID:  item.VideoID,
		Title:    item.Title,
		Provider: item.Provider,
	}))

	final, lookupErr := r.store.GetByID(ctx, item.ID)
	if lookupErr != nil || final == nil {
		return item, lookupErr
	}
	if final.Status == store.StatusFailed {
		if failed := result.Failed(); len(failed) > 0 {
			return final, failed[0].Err
		}
		return final, fmt.Errorf("processing failed: %s", final.ErrorMessage)
	}
	return final, nil
}

// Providers exposes the loaded provider plugins, in load order, for callers
// that route URLs through the plugin surface.
func (r *Runner) Providers() []plugin.Provider {
	if r.manager == nil {
		return nil
	}
	return r.manager.Providers()
}
